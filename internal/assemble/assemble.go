// Package assemble builds a single narrated video from per-slide images and
// narration clips using a split-track approach: the audio and video tracks
// are produced independently as lossless/final intermediates and muxed
// exactly once, so audio goes through one lossy encode total.
package assemble

// Output and timing constants. These match the fixed raster/audio contract
// of the upstream slide and narration producers.
const (
	Width  = 1920
	Height = 1080
	FPS    = 30

	// libx264 settings for both the crossfade render and fallback segments.
	CRF    = 18
	Preset = "medium"

	// PreRoll and PostRoll give narration breathing room on each slide.
	PreRoll  = 1.0
	PostRoll = 1.0

	// SilentSlideDuration is how long an un-narrated slide stays on screen.
	SilentSlideDuration = 2.0

	// TransitionDuration is the crossfade length between adjacent slides.
	TransitionDuration = 0.5

	// minOffset keeps xfade offsets out of degenerate zero/negative
	// territory when a slide is shorter than the transition.
	minOffset = 0.1

	// Audio intermediates are 44.1kHz stereo PCM; the final encode is AAC.
	audioSampleRate  = "44100"
	audioBitrate     = "256k"
	audioChannelSpec = "anullsrc=r=44100:cl=stereo"
)
