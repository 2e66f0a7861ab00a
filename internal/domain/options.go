package domain

// ColorSpace selects the output color space of the RAW postprocess step.
type ColorSpace string

const (
	ColorSpaceRaw  ColorSpace = "raw"
	ColorSpaceSRGB ColorSpace = "srgb"
)

// Demosaic selects the demosaic algorithm used during decoding.
type Demosaic string

const (
	DemosaicLinear Demosaic = "linear"
	DemosaicVNG    Demosaic = "vng"
	DemosaicAHD    Demosaic = "ahd"
)

// Highlight selects how clipped highlights are handled.
type Highlight string

const (
	HighlightIgnore Highlight = "ignore"
	HighlightClip   Highlight = "clip"
	HighlightBlend  Highlight = "blend"
)

// DecodeBackend selects the decoder implementation.
type DecodeBackend string

const (
	// BackendDcraw runs a full demosaic through an external dcraw
	// process, one process per frame.
	BackendDcraw DecodeBackend = "dcraw"
	// BackendEmbedded extracts the camera's embedded preview JPEG
	// instead of demosaicing the sensor data.
	BackendEmbedded DecodeBackend = "embedded"
)

// DecodeOptions is the immutable RAW->JPEG conversion configuration shared
// by every job in a batch. The defaults produce a flat, log-like image
// suited for grading.
type DecodeOptions struct {
	Gamma           float64
	NoAutoBright    bool
	Brightness      float64
	ColorSpace      ColorSpace
	CameraWB        bool
	Demosaic        Demosaic
	Highlight       Highlight
	BlackLevel      int
	SaturationLevel int
	HalfSize        bool
	Backend         DecodeBackend
}

// DefaultDecodeOptions returns the flat-look defaults.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Gamma:           10.1,
		NoAutoBright:    true,
		Brightness:      3,
		ColorSpace:      ColorSpaceRaw,
		CameraWB:        true,
		Demosaic:        DemosaicLinear,
		Highlight:       HighlightIgnore,
		BlackLevel:      200,
		SaturationLevel: 10000,
		Backend:         BackendDcraw,
	}
}

// ParseColorSpace maps user input to a ColorSpace, reporting whether the
// value was recognized.
func ParseColorSpace(value string) (ColorSpace, bool) {
	switch ColorSpace(value) {
	case ColorSpaceRaw, ColorSpaceSRGB:
		return ColorSpace(value), true
	default:
		return "", false
	}
}

func ParseDemosaic(value string) (Demosaic, bool) {
	switch Demosaic(value) {
	case DemosaicLinear, DemosaicVNG, DemosaicAHD:
		return Demosaic(value), true
	default:
		return "", false
	}
}

func ParseHighlight(value string) (Highlight, bool) {
	switch Highlight(value) {
	case HighlightIgnore, HighlightClip, HighlightBlend:
		return Highlight(value), true
	default:
		return "", false
	}
}

func ParseDecodeBackend(value string) (DecodeBackend, bool) {
	switch DecodeBackend(value) {
	case BackendDcraw, BackendEmbedded:
		return DecodeBackend(value), true
	default:
		return "", false
	}
}
