package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrjulesfletcher/dng-to-video/internal/config"
	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
	"github.com/mrjulesfletcher/dng-to-video/internal/prompt"
)

// runWizard fills in everything the flags did not cover. With --yes the
// dialogs are skipped entirely and the defaults stand.
func runWizard(cmd *cobra.Command, prompter *prompt.Prompter, opts *options) error {
	if opts.cfg.InputDir == "" {
		if opts.assumeYes {
			return apperrors.Wrap(apperrors.InputMissing, "input", "",
				fmt.Errorf("no input directory given"))
		}
		dir, err := prompter.Line("Please paste the path to your DNG folder")
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		if dir == "" {
			return apperrors.Wrap(apperrors.InputMissing, "input", "",
				fmt.Errorf("no input directory given"))
		}
		opts.cfg.InputDir = dir
	}

	if opts.assumeYes {
		return nil
	}
	flags := cmd.Flags()
	preset := opts.presetData

	if !flags.Changed("half") && (preset == nil || preset.HalfSize == nil) {
		quality, err := prompter.Choice("Select quality", []string{"full", "half"})
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		opts.cfg.Decode.HalfSize = quality == "half"
	}

	if opts.preset == "" {
		useDefault, err := prompter.YesNo("Use default RAW->JPEG color configuration?")
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		if !useDefault {
			if err := customizeDecodeOptions(prompter, &opts.cfg.Decode); err != nil {
				return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
			}
		}
	}

	if !flags.Changed("lut") && (preset == nil || preset.LUTPath == nil) {
		lut, err := prompter.Input("Enter path to LUT", opts.cfg.LUTPath)
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		opts.cfg.LUTPath = lut
	}

	if !flags.Changed("fps") && (preset == nil || preset.FPS == nil) {
		raw, err := prompter.Input("Enter FPS for the video", strconv.Itoa(opts.cfg.FPS))
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		fps, convErr := strconv.Atoi(raw)
		if convErr != nil {
			// Validate() substitutes the default and surfaces it.
			fps = 0
		}
		opts.cfg.FPS = fps
	}

	if !flags.Changed("flat-format") {
		if err := askContainer(prompter, "flat video", &opts.cfg.FlatFormat, &opts.cfg.FlatProfile); err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
	}
	if !opts.skipGrade && !flags.Changed("grade-format") {
		if err := askContainer(prompter, "graded video", &opts.cfg.GradeFormat, &opts.cfg.GradeProfile); err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
	}

	return nil
}

// customizeDecodeOptions walks the per-field dialog. Unparseable numbers
// fall back to the field default; Validate() reports the substitution.
func customizeDecodeOptions(prompter *prompt.Prompter, opts *domain.DecodeOptions) error {
	defaults := domain.DefaultDecodeOptions()

	raw, err := prompter.Input("Enter gamma value", formatFloat(defaults.Gamma))
	if err != nil {
		return err
	}
	opts.Gamma = floatOrZero(raw)

	if opts.NoAutoBright, err = prompter.YesNo("Disable auto brightness?"); err != nil {
		return err
	}

	if raw, err = prompter.Input("Enter bright value", formatFloat(defaults.Brightness)); err != nil {
		return err
	}
	opts.Brightness = floatOrZero(raw)

	space, err := prompter.Choice("Select output color space", []string{string(domain.ColorSpaceRaw), string(domain.ColorSpaceSRGB)})
	if err != nil {
		return err
	}
	opts.ColorSpace = domain.ColorSpace(space)

	if opts.CameraWB, err = prompter.YesNo("Use camera white balance?"); err != nil {
		return err
	}

	algo, err := prompter.Choice("Select demosaic algorithm", []string{
		string(domain.DemosaicLinear), string(domain.DemosaicVNG), string(domain.DemosaicAHD),
	})
	if err != nil {
		return err
	}
	opts.Demosaic = domain.Demosaic(algo)

	mode, err := prompter.Choice("Select highlight mode", []string{
		string(domain.HighlightIgnore), string(domain.HighlightClip), string(domain.HighlightBlend),
	})
	if err != nil {
		return err
	}
	opts.Highlight = domain.Highlight(mode)

	if raw, err = prompter.Input("Enter black level", strconv.Itoa(defaults.BlackLevel)); err != nil {
		return err
	}
	opts.BlackLevel = intOr(raw, -1)

	if raw, err = prompter.Input("Enter saturation threshold", strconv.Itoa(defaults.SaturationLevel)); err != nil {
		return err
	}
	opts.SaturationLevel = intOr(raw, 0)

	return nil
}

// askContainer resolves a format/profile pair for one video stage.
func askContainer(prompter *prompt.Prompter, label string, format *config.Container, profile *string) error {
	choice, err := prompter.Choice("Select "+label+" format", []string{string(config.ContainerMP4), string(config.ContainerProRes)})
	if err != nil {
		return err
	}
	*format = config.Container(choice)
	if *format != config.ContainerProRes {
		return nil
	}
	tier, err := prompter.Choice("Select "+label+" ProRes variant", config.ProResProfiles)
	if err != nil {
		return err
	}
	*profile = tier
	return nil
}

func floatOrZero(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return value
}

func intOr(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
