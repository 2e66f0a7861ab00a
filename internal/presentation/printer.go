package presentation

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// Printer renders run output for the plain (non-TUI) front-end. Styling
// is dropped when the output is not a terminal.
type Printer struct {
	Writer io.Writer
	Styled bool
}

func (p Printer) section(label string) string {
	if p.Styled {
		return sectionStyle.Render(label)
	}
	return label
}

// PrintBanner opens the run.
func (p Printer) PrintBanner() {
	banner := "DNG -> Flat -> LUT pipeline"
	if p.Styled {
		banner = titleStyle.Render(banner)
	}
	fmt.Fprintln(p.Writer, banner)
	fmt.Fprintln(p.Writer)
}

// PrintSubstitutions reports config values replaced by their defaults.
func (p Printer) PrintSubstitutions(notes []string) {
	for _, note := range notes {
		line := "Note: " + note
		if p.Styled {
			line = warningStyle.Render(line)
		}
		fmt.Fprintln(p.Writer, line)
	}
}

// PrintBatchSummary reports counts, timing, shot range, and the failed
// source files of one conversion batch.
func (p Printer) PrintBatchSummary(outcome *domain.BatchOutcome) {
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, p.section("Conversion Summary"))
	fmt.Fprintln(p.Writer)

	p.stat("Frames:", fmt.Sprintf("%d of %d converted", outcome.SuccessCount, outcome.Total))
	p.stat("Elapsed:", outcome.Elapsed.Round(10*time.Millisecond).String())
	if outcome.RangeStart != nil && outcome.RangeEnd != nil {
		p.stat("Shot between:", fmt.Sprintf("%s and %s",
			outcome.RangeStart.Format("2006-01-02 15:04:05"),
			outcome.RangeEnd.Format("2006-01-02 15:04:05")))
	}
	p.stat("Output:", outcome.OutputDir)

	if outcome.FailureCount() > 0 {
		fmt.Fprintln(p.Writer)
		header := fmt.Sprintf("%d files failed to convert:", outcome.FailureCount())
		if p.Styled {
			header = warningStyle.Render(header)
		}
		fmt.Fprintln(p.Writer, header)
		fmt.Fprintln(p.Writer, renderFailureTable(outcome.FailedSources))
	}
	fmt.Fprintln(p.Writer)
}

// PrintVideoReady reports one finished video stage.
func (p Printer) PrintVideoReady(label, path string) {
	line := fmt.Sprintf("%s created: %s", label, path)
	if p.Styled {
		line = successStyle.Render(line)
	}
	fmt.Fprintln(p.Writer, line)
}

// PrintOptOut reports a deliberate early exit.
func (p Printer) PrintOptOut(message string) {
	if p.Styled {
		message = dimStyle.Render(message)
	}
	fmt.Fprintln(p.Writer, message)
}

// PrintError reports a fatal pipeline error.
func (p Printer) PrintError(message string) {
	if p.Styled {
		message = errorStyle.Render(message)
	}
	fmt.Fprintln(p.Writer, message)
}

func (p Printer) stat(label, value string) {
	if p.Styled {
		label = statLabelStyle.Render(label)
	} else {
		label = fmt.Sprintf("%-18s", label)
	}
	fmt.Fprintf(p.Writer, "  %s %s\n", label, value)
}

func renderFailureTable(sources []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Source file"})
	for i, src := range sources {
		tw.AppendRow(table.Row{i + 1, src})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
