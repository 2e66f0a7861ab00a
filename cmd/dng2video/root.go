package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mrjulesfletcher/dng-to-video/internal/config"
	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
	"github.com/mrjulesfletcher/dng-to-video/internal/logging"
	"github.com/mrjulesfletcher/dng-to-video/internal/presentation"
	"github.com/mrjulesfletcher/dng-to-video/internal/prompt"
)

type options struct {
	cfg        config.Config
	preset     string
	presetData *config.Preset
	backend    string
	assumeYes  bool
	skipGrade  bool
	reprocess  bool
	useTUI     bool
}

func newRootCommand() *cobra.Command {
	opts := options{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:           "dng2video",
		Short:         "Convert a folder of DNG frames into a flat proxy video and an optional LUT-graded video",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.cfg.InputDir, "input", "i", "", "Directory containing the DNG frames")
	flags.StringVar(&opts.preset, "preset", "", "TOML preset with decode options")
	flags.StringVar(&opts.cfg.LUTPath, "lut", config.DefaultLUTPath, "3D LUT (.cube) applied during grading")
	flags.IntVar(&opts.cfg.FPS, "fps", config.DefaultFPS, "Frame rate of the assembled videos")
	flags.BoolVar(&opts.cfg.Decode.HalfSize, "half", false, "Decode at half resolution")
	flags.StringVar((*string)(&opts.cfg.FlatFormat), "flat-format", string(config.ContainerMP4), "Flat video format (mp4 or prores)")
	flags.StringVar(&opts.cfg.FlatProfile, "flat-profile", config.DefaultProProfile, "ProRes tier for the flat video (proxy, lt, 422, hq)")
	flags.StringVar((*string)(&opts.cfg.GradeFormat), "grade-format", string(config.ContainerMP4), "Graded video format (mp4 or prores)")
	flags.StringVar(&opts.cfg.GradeProfile, "grade-profile", config.DefaultProProfile, "ProRes tier for the graded video")
	flags.StringVar(&opts.backend, "backend", string(domain.BackendDcraw), "RAW decode backend (dcraw or embedded)")
	flags.BoolVarP(&opts.assumeYes, "yes", "y", false, "Answer yes to every confirmation and skip the dialogs")
	flags.BoolVar(&opts.skipGrade, "skip-grade", false, "Stop after the flat video, do not apply the LUT")
	flags.BoolVar(&opts.reprocess, "reprocess", false, "Re-convert even when a processed directory already exists")
	flags.BoolVar(&opts.useTUI, "tui", false, "Run the execution phases in the full-screen interface")
	flags.BoolVarP(&opts.cfg.Verbose, "verbose", "v", false, "Verbose console output")
	flags.StringVar(&opts.cfg.LogFile, "log-file", logging.DefaultLogFile, "Detailed debug log (empty disables)")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	opts.cfg.Decode.Backend = domain.DecodeBackend(opts.backend)
	if opts.preset != "" {
		preset, err := config.ReadPreset(opts.preset)
		if err != nil {
			return apperrors.Wrap(apperrors.InvalidConfig, "preset", opts.preset, err)
		}
		preset.Apply(&opts.cfg, presetLocks(cmd))
		opts.presetData = preset
	}
	opts.cfg.ApplyEnv()

	styled := isatty.IsTerminal(os.Stdout.Fd())
	printer := presentation.Printer{Writer: os.Stdout, Styled: styled}

	logger, closeLog, err := logging.Setup(opts.cfg.LogFile, os.Stdout, opts.cfg.Verbose)
	if err != nil {
		return apperrors.Wrap(apperrors.IOFailure, "open log", opts.cfg.LogFile, err)
	}
	defer closeLog()

	prompter := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	printer.PrintBanner()

	if err := runWizard(cmd, prompter, opts); err != nil {
		return err
	}

	notes := opts.cfg.Validate()
	printer.PrintSubstitutions(notes)
	for _, note := range notes {
		logger.Debug(note)
	}

	return runPipeline(cmd.Context(), opts, prompter, printer, logger, styled)
}

// presetLocks maps explicitly set flags to the preset keys they shadow,
// so a flag on the command line always beats the preset file.
func presetLocks(cmd *cobra.Command) map[string]bool {
	flagKeys := map[string]string{
		"fps":     "fps",
		"lut":     "lut",
		"half":    "half_size",
		"backend": "backend",
	}
	locked := make(map[string]bool, len(flagKeys))
	for flag, key := range flagKeys {
		if cmd.Flags().Changed(flag) {
			locked[key] = true
		}
	}
	return locked
}
