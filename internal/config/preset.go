package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// Preset mirrors the decode-option schema as a TOML document so a known
// good look can be reused across runs instead of re-answering the
// customization dialog. Absent keys keep their defaults.
type Preset struct {
	Gamma           *float64 `toml:"gamma"`
	NoAutoBright    *bool    `toml:"no_auto_bright"`
	Brightness      *float64 `toml:"brightness"`
	ColorSpace      *string  `toml:"color_space"`
	CameraWB        *bool    `toml:"camera_wb"`
	Demosaic        *string  `toml:"demosaic"`
	Highlight       *string  `toml:"highlight"`
	BlackLevel      *int     `toml:"black_level"`
	SaturationLevel *int     `toml:"saturation_level"`
	HalfSize        *bool    `toml:"half_size"`
	Backend         *string  `toml:"backend"`
	FPS             *int     `toml:"fps"`
	LUTPath         *string  `toml:"lut"`
}

// ReadPreset parses a TOML preset file without touching any config.
func ReadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	var preset Preset
	if err := toml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return &preset, nil
}

// Apply overlays the preset onto cfg. Keys named in locked are skipped,
// so a value set explicitly on the command line beats the preset's.
func (p Preset) Apply(cfg *Config, locked map[string]bool) {
	opts := &cfg.Decode
	if p.Gamma != nil && !locked["gamma"] {
		opts.Gamma = *p.Gamma
	}
	if p.NoAutoBright != nil && !locked["no_auto_bright"] {
		opts.NoAutoBright = *p.NoAutoBright
	}
	if p.Brightness != nil && !locked["brightness"] {
		opts.Brightness = *p.Brightness
	}
	if p.ColorSpace != nil && !locked["color_space"] {
		opts.ColorSpace = domain.ColorSpace(*p.ColorSpace)
	}
	if p.CameraWB != nil && !locked["camera_wb"] {
		opts.CameraWB = *p.CameraWB
	}
	if p.Demosaic != nil && !locked["demosaic"] {
		opts.Demosaic = domain.Demosaic(*p.Demosaic)
	}
	if p.Highlight != nil && !locked["highlight"] {
		opts.Highlight = domain.Highlight(*p.Highlight)
	}
	if p.BlackLevel != nil && !locked["black_level"] {
		opts.BlackLevel = *p.BlackLevel
	}
	if p.SaturationLevel != nil && !locked["saturation_level"] {
		opts.SaturationLevel = *p.SaturationLevel
	}
	if p.HalfSize != nil && !locked["half_size"] {
		opts.HalfSize = *p.HalfSize
	}
	if p.Backend != nil && !locked["backend"] {
		opts.Backend = domain.DecodeBackend(*p.Backend)
	}
	if p.FPS != nil && !locked["fps"] {
		cfg.FPS = *p.FPS
	}
	if p.LUTPath != nil && !locked["lut"] {
		cfg.LUTPath = *p.LUTPath
	}
}
