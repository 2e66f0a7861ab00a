// Package raw implements the RAW decode boundary. The primary backend
// shells out to dcraw, one process per frame, so a decoder crash on a
// corrupt file is contained in the child process. The alternate backend
// extracts the camera's embedded preview JPEG without demosaicing.
package raw

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// DefaultDcrawCommand is the LibRaw/dcraw binary resolved from PATH.
const DefaultDcrawCommand = "dcraw"

// DcrawDecoder runs a full demosaic through an external dcraw process and
// reads the TIFF it emits on stdout.
type DcrawDecoder struct {
	// Command overrides the binary name, mainly for tests.
	Command string
}

func (d DcrawDecoder) Decode(ctx context.Context, path string, opts domain.DecodeOptions) (image.Image, error) {
	command := d.Command
	if command == "" {
		command = DefaultDcrawCommand
	}

	args := DcrawArgs(opts, path)
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w%s", command, strings.Join(args, " "), err, stderrTail(stderr.String()))
	}

	img, err := tiff.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode %s output: %w", command, err)
	}
	return img, nil
}

// DcrawArgs maps DecodeOptions onto the dcraw flag set. The mapping is a
// pure function of the options; the input path is always last.
func DcrawArgs(opts domain.DecodeOptions, path string) []string {
	gamma := strconv.FormatFloat(opts.Gamma, 'f', -1, 64)
	args := []string{
		"-c", "-T",
		"-g", gamma, gamma,
		"-b", strconv.FormatFloat(opts.Brightness, 'f', -1, 64),
		"-o", colorSpaceCode(opts.ColorSpace),
		"-q", demosaicCode(opts.Demosaic),
		"-H", highlightCode(opts.Highlight),
		"-k", strconv.Itoa(opts.BlackLevel),
		"-S", strconv.Itoa(opts.SaturationLevel),
	}
	if opts.NoAutoBright {
		args = append(args, "-W")
	}
	if opts.CameraWB {
		args = append(args, "-w")
	}
	if opts.HalfSize {
		args = append(args, "-h")
	}
	return append(args, path)
}

func colorSpaceCode(space domain.ColorSpace) string {
	if space == domain.ColorSpaceSRGB {
		return "1"
	}
	return "0"
}

func demosaicCode(algo domain.Demosaic) string {
	switch algo {
	case domain.DemosaicVNG:
		return "1"
	case domain.DemosaicAHD:
		return "3"
	default:
		return "0"
	}
}

func highlightCode(mode domain.Highlight) string {
	switch mode {
	case domain.HighlightClip:
		return "0"
	case domain.HighlightBlend:
		return "2"
	default:
		// dcraw's "unclipped" mode leaves highlights alone.
		return "1"
	}
}

func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, "; ")
}
