package domain

// PipelineState is the sequencer's position in the convert -> assemble ->
// grade pipeline. It advances strictly forward; the only re-entry is the
// resume branch that reaches Converted from NotStarted when a prior
// processed directory is reused.
type PipelineState string

const (
	StateNotStarted       PipelineState = "not_started"
	StateConverted        PipelineState = "converted"
	StateFlatVideoReady   PipelineState = "flat_video_ready"
	StateGradedVideoReady PipelineState = "graded_video_ready"
	StateFailed           PipelineState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s PipelineState) Terminal() bool {
	return s == StateGradedVideoReady || s == StateFailed
}
