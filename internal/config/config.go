package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// Container is the output container of an assembled video.
type Container string

const (
	ContainerMP4    Container = "mp4"
	ContainerProRes Container = "prores"
)

// ProResProfiles lists the accepted quality tiers in ascending order.
var ProResProfiles = []string{"proxy", "lt", "422", "hq"}

const (
	DefaultFPS        = 24
	DefaultLUTPath    = "/home/pi/cinemate/resources/LUTs/LUT_ROMEO&JULIETTE.cube"
	DefaultProProfile = "hq"
)

// Config is the full configuration of one pipeline run. Interactive
// prompts, flags, environment, and preset files all funnel into this
// struct; nothing downstream reads user input.
type Config struct {
	InputDir     string
	LUTPath      string
	FPS          int
	FlatFormat   Container
	FlatProfile  string
	GradeFormat  Container
	GradeProfile string
	Decode       domain.DecodeOptions
	Verbose      bool
	LogFile      string
}

// Default returns the configuration used when the user accepts every default.
func Default() Config {
	return Config{
		LUTPath:      DefaultLUTPath,
		FPS:          DefaultFPS,
		FlatFormat:   ContainerMP4,
		FlatProfile:  DefaultProProfile,
		GradeFormat:  ContainerMP4,
		GradeProfile: DefaultProProfile,
		Decode:       domain.DefaultDecodeOptions(),
	}
}

// ApplyEnv fills unset fields from DNG2VIDEO_* variables.
func (c *Config) ApplyEnv() {
	if c.InputDir == "" {
		c.InputDir = envOrEmpty("DNG2VIDEO_INPUT_DIR")
	}
	if lut := envOrEmpty("DNG2VIDEO_LUT"); lut != "" && c.LUTPath == DefaultLUTPath {
		c.LUTPath = lut
	}
	if !c.Verbose {
		c.Verbose = envTruthy("DNG2VIDEO_VERBOSE")
	}
}

// Validate normalizes enum fields, substituting defaults for unknown
// values. Substitutions are returned so the caller can surface them.
func (c *Config) Validate() []string {
	var notes []string
	if c.FPS <= 0 {
		notes = append(notes, substitution("fps", strconv.Itoa(c.FPS), strconv.Itoa(DefaultFPS)))
		c.FPS = DefaultFPS
	}
	if c.FlatFormat != ContainerMP4 && c.FlatFormat != ContainerProRes {
		notes = append(notes, substitution("flat format", string(c.FlatFormat), string(ContainerMP4)))
		c.FlatFormat = ContainerMP4
	}
	if c.GradeFormat != ContainerMP4 && c.GradeFormat != ContainerProRes {
		notes = append(notes, substitution("grade format", string(c.GradeFormat), string(ContainerMP4)))
		c.GradeFormat = ContainerMP4
	}
	if !validProfile(c.FlatProfile) {
		notes = append(notes, substitution("flat ProRes profile", c.FlatProfile, DefaultProProfile))
		c.FlatProfile = DefaultProProfile
	}
	if !validProfile(c.GradeProfile) {
		notes = append(notes, substitution("grade ProRes profile", c.GradeProfile, DefaultProProfile))
		c.GradeProfile = DefaultProProfile
	}
	notes = append(notes, normalizeDecode(&c.Decode)...)
	return notes
}

func normalizeDecode(opts *domain.DecodeOptions) []string {
	var notes []string
	defaults := domain.DefaultDecodeOptions()
	if opts.Gamma <= 0 {
		notes = append(notes, substitution("gamma", formatFloat(opts.Gamma), formatFloat(defaults.Gamma)))
		opts.Gamma = defaults.Gamma
	}
	if opts.Brightness <= 0 {
		notes = append(notes, substitution("brightness", formatFloat(opts.Brightness), formatFloat(defaults.Brightness)))
		opts.Brightness = defaults.Brightness
	}
	if _, ok := domain.ParseColorSpace(string(opts.ColorSpace)); !ok {
		notes = append(notes, substitution("color space", string(opts.ColorSpace), string(defaults.ColorSpace)))
		opts.ColorSpace = defaults.ColorSpace
	}
	if _, ok := domain.ParseDemosaic(string(opts.Demosaic)); !ok {
		notes = append(notes, substitution("demosaic algorithm", string(opts.Demosaic), string(defaults.Demosaic)))
		opts.Demosaic = defaults.Demosaic
	}
	if _, ok := domain.ParseHighlight(string(opts.Highlight)); !ok {
		notes = append(notes, substitution("highlight mode", string(opts.Highlight), string(defaults.Highlight)))
		opts.Highlight = defaults.Highlight
	}
	if opts.BlackLevel < 0 {
		notes = append(notes, substitution("black level", strconv.Itoa(opts.BlackLevel), strconv.Itoa(defaults.BlackLevel)))
		opts.BlackLevel = defaults.BlackLevel
	}
	if opts.SaturationLevel <= 0 {
		notes = append(notes, substitution("saturation level", strconv.Itoa(opts.SaturationLevel), strconv.Itoa(defaults.SaturationLevel)))
		opts.SaturationLevel = defaults.SaturationLevel
	}
	if _, ok := domain.ParseDecodeBackend(string(opts.Backend)); !ok {
		notes = append(notes, substitution("decode backend", string(opts.Backend), string(defaults.Backend)))
		opts.Backend = defaults.Backend
	}
	return notes
}

func validProfile(profile string) bool {
	for _, p := range ProResProfiles {
		if p == profile {
			return true
		}
	}
	return false
}

func substitution(field, got, used string) string {
	if got == "" {
		got = "(empty)"
	}
	return field + " " + got + " not usable, using " + used
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
