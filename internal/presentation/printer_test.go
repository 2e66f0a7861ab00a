package presentation

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

func TestPrintBatchSummaryIncludesCountsAndRange(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	end := start.Add(90 * time.Second)
	outcome := &domain.BatchOutcome{
		OutputDir:    "/shoot/processed",
		Total:        120,
		SuccessCount: 120,
		Elapsed:      42 * time.Second,
		RangeStart:   &start,
		RangeEnd:     &end,
	}

	printer.PrintBatchSummary(outcome)
	output := buf.String()
	if !strings.Contains(output, "120 of 120 converted") {
		t.Fatalf("expected frame counts, got:\n%s", output)
	}
	if !strings.Contains(output, "2024-06-01 10:00:00") {
		t.Fatalf("expected shot range, got:\n%s", output)
	}
	if !strings.Contains(output, "/shoot/processed") {
		t.Fatalf("expected output dir, got:\n%s", output)
	}
	if strings.Contains(output, "failed to convert") {
		t.Fatalf("unexpected failure section, got:\n%s", output)
	}
}

func TestPrintBatchSummaryListsFailures(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	outcome := &domain.BatchOutcome{
		OutputDir:     "/shoot/processed",
		Total:         3,
		SuccessCount:  1,
		FailedSources: []string{"/shoot/a.dng", "/shoot/b.dng"},
	}

	printer.PrintBatchSummary(outcome)
	output := buf.String()
	if !strings.Contains(output, "2 files failed to convert") {
		t.Fatalf("expected failure header, got:\n%s", output)
	}
	if !strings.Contains(output, "/shoot/a.dng") || !strings.Contains(output, "/shoot/b.dng") {
		t.Fatalf("expected failed sources in table, got:\n%s", output)
	}
}

func TestPrintSubstitutionsPrefixesNotes(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	printer.PrintSubstitutions([]string{"fps 0 not usable, using 24"})
	if !strings.Contains(buf.String(), "Note: fps 0 not usable, using 24") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestPrintVideoReady(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	printer.PrintVideoReady("Flat video", "/shoot/flat_video.mp4")
	if !strings.Contains(buf.String(), "Flat video created: /shoot/flat_video.mp4") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
