// Package ffmpeg builds and runs the external encoder command lines for
// flat video assembly and LUT application.
package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// proresProfiles maps quality tiers to the prores_ks -profile:v values.
var proresProfiles = map[string]string{
	"proxy": "0",
	"lt":    "1",
	"422":   "2",
	"hq":    "3",
}

// ProfileCode resolves a quality tier, falling back to hq for unknown
// values so a bad profile never produces an invalid command line.
func ProfileCode(profile string) string {
	if code, ok := proresProfiles[profile]; ok {
		return code
	}
	return "3"
}

// FlatVideoArgs builds the assembly command. The mp4 variant stream-copies
// the JPEG frames straight into the container; the prores variant
// re-encodes through prores_ks at the requested tier. Frames are consumed
// in filename sort order via the glob input.
func FlatVideoArgs(frameDir, outputPath string, fps int, format, profile string) []string {
	args := []string{
		"-y",
		"-framerate", strconv.Itoa(fps),
		"-pattern_type", "glob",
		"-i", filepath.Join(frameDir, "*.jpg"),
	}
	if format == "prores" {
		args = append(args, "-c:v", "prores_ks", "-profile:v", ProfileCode(profile))
	} else {
		args = append(args, "-c:v", "copy")
	}
	return append(args, "-c:a", "copy", outputPath)
}

// LUTArgs builds the grading command applying a 3D LUT via the lut3d
// filter. The container choice is independent of the flat video's.
func LUTArgs(inputVideo, lutPath, outputPath string, format, profile string) []string {
	args := []string{
		"-y",
		"-i", inputVideo,
		"-vf", fmt.Sprintf("lut3d='%s'", lutPath),
	}
	if format == "prores" {
		args = append(args, "-c:v", "prores_ks", "-profile:v", ProfileCode(profile))
	}
	return append(args, "-c:a", "copy", outputPath)
}
