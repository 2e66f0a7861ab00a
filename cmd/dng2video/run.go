package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"

	"github.com/mrjulesfletcher/dng-to-video/internal/app"
	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
	"github.com/mrjulesfletcher/dng-to-video/internal/infra/exif"
	"github.com/mrjulesfletcher/dng-to-video/internal/infra/ffmpeg"
	osfs "github.com/mrjulesfletcher/dng-to-video/internal/infra/fs"
	"github.com/mrjulesfletcher/dng-to-video/internal/infra/raw"
	"github.com/mrjulesfletcher/dng-to-video/internal/presentation"
	"github.com/mrjulesfletcher/dng-to-video/internal/prompt"
	"github.com/mrjulesfletcher/dng-to-video/internal/tui"
)

// runPipeline wires the adapters together and drives the sequencer from
// conversion to the graded video. It returns nil both on full success and
// when the user declines a gate; only real failures propagate.
func runPipeline(ctx context.Context, opts *options, prompter *prompt.Prompter, printer presentation.Printer, logger *slog.Logger, styled bool) error {
	filesystem := osfs.OSFS{}
	converter := &app.Converter{
		FS:      filesystem,
		Decoder: raw.NewDecoder(opts.cfg.Decode.Backend, ""),
		Encoder: raw.JPEGEncoder{},
		Exif:    exif.Reader{},
		Logger:  logger,
	}
	encoder := ffmpeg.Encoder{Logger: logger}
	sequencer := app.NewSequencer(filesystem, converter, encoder, logger)

	reuse, err := decideReuse(sequencer, prompter, opts)
	if err != nil {
		return err
	}
	if reuse {
		if err := sequencer.Resume(opts.cfg.InputDir); err != nil {
			return err
		}
	}

	if opts.useTUI {
		return runTUI(ctx, opts, sequencer, converter)
	}

	if !reuse {
		attachProgressBar(converter, styled)
		outcome, err := sequencer.Convert(ctx, opts.cfg.InputDir, opts.cfg.Decode)
		fmt.Fprintln(printer.Writer)
		if err != nil {
			if outcome != nil {
				printer.PrintBatchSummary(outcome)
			}
			return err
		}
		printer.PrintBatchSummary(outcome)
	}

	if !opts.assumeYes {
		proceed, err := prompter.YesNo("Create the flat video from the processed frames?")
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		if !proceed {
			printer.PrintOptOut("Skipping video creation.")
			return nil
		}
	}

	flatPath, err := sequencer.AssembleFlat(ctx, opts.cfg.FPS, string(opts.cfg.FlatFormat), opts.cfg.FlatProfile)
	if err != nil {
		return err
	}
	printer.PrintVideoReady("Flat video", flatPath)

	if opts.skipGrade {
		return nil
	}
	if !opts.assumeYes {
		proceed, err := prompter.YesNo("Apply the LUT to create a graded video?")
		if err != nil {
			return apperrors.Wrap(apperrors.Internal, "prompt", "", err)
		}
		if !proceed {
			printer.PrintOptOut("Skipping LUT application.")
			return nil
		}
	}

	if exists, err := filesystem.Exists(opts.cfg.LUTPath); err != nil || !exists {
		return apperrors.Wrap(apperrors.InputMissing, "lut", opts.cfg.LUTPath,
			fmt.Errorf("LUT file not found"))
	}

	gradedPath, err := sequencer.ApplyLUT(ctx, opts.cfg.LUTPath, string(opts.cfg.GradeFormat), opts.cfg.GradeProfile)
	if err != nil {
		return err
	}
	printer.PrintVideoReady("LUT-applied video", gradedPath)
	return nil
}

// decideReuse resolves what to do with a processed directory left by an
// earlier run. --reprocess forces a fresh conversion, --yes silently
// reuses the existing frames, otherwise the user picks.
func decideReuse(sequencer *app.Sequencer, prompter *prompt.Prompter, opts *options) (bool, error) {
	if opts.reprocess || !sequencer.HasPriorBatch(opts.cfg.InputDir) {
		return false, nil
	}
	if opts.assumeYes {
		return true, nil
	}
	choice, err := prompter.Choice("Found existing processed frames. Reprocess or use existing?", []string{"r", "e"})
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "prompt", "", err)
	}
	return choice == "e", nil
}

// attachProgressBar hooks a terminal progress bar into the converter.
// The bar is created on the first callback, once the total is known, and
// only ever touched from the aggregator loop.
func attachProgressBar(converter *app.Converter, styled bool) {
	var bar *progressbar.ProgressBar
	converter.OnProgress = func(completed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Converting"),
				progressbar.OptionSetWriter(os.Stdout),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionEnableColorCodes(styled),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(completed)
	}
}

// runTUI runs the same stages behind the full-screen front-end. The
// stage commands block inside bubbletea's goroutines; progress arrives
// through program.Send from the converter callback.
func runTUI(ctx context.Context, opts *options, sequencer *app.Sequencer, converter *app.Converter) error {
	resumed := sequencer.State() == domain.StateConverted

	var program *tea.Program
	stages := tui.Stages{
		Convert: func() tea.Msg {
			if resumed {
				return tui.ConvertDoneMsg{}
			}
			outcome, err := sequencer.Convert(ctx, opts.cfg.InputDir, opts.cfg.Decode)
			if err != nil {
				return tui.ErrorMsg{Err: err}
			}
			return tui.ConvertDoneMsg{Outcome: outcome}
		},
		Assemble: func() tea.Msg {
			path, err := sequencer.AssembleFlat(ctx, opts.cfg.FPS, string(opts.cfg.FlatFormat), opts.cfg.FlatProfile)
			if err != nil {
				return tui.ErrorMsg{Err: err}
			}
			return tui.StageDoneMsg{State: domain.StateFlatVideoReady, Path: path}
		},
		Grade: func() tea.Msg {
			path, err := sequencer.ApplyLUT(ctx, opts.cfg.LUTPath, string(opts.cfg.GradeFormat), opts.cfg.GradeProfile)
			if err != nil {
				return tui.ErrorMsg{Err: err}
			}
			return tui.StageDoneMsg{State: domain.StateGradedVideoReady, Path: path}
		},
	}
	converter.OnProgress = func(completed, total int) {
		program.Send(tui.ConvertProgressMsg{Completed: completed, Total: total})
	}

	model := tui.NewModel(tui.Config{
		InputDir:  opts.cfg.InputDir,
		SkipGrade: opts.skipGrade,
		Stages:    stages,
	})
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "tui", "", err)
	}
	result, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	if result.Err != nil {
		return result.Err
	}
	return nil
}
