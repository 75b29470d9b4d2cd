package gpu

// TimingRecord is the per-stage wall-clock breakdown of one step, in
// milliseconds.
type TimingRecord struct {
	PrepareMS  float64
	UploadMS   float64
	DispatchMS float64
	DownloadMS float64
	TotalMS    float64

	LastUsedGPU      bool
	NeighborOverflow bool
}
