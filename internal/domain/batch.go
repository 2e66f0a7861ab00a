package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ConversionJob is one RAW file awaiting conversion. The sequence index is
// assigned at discovery time and fixes the output filename regardless of
// completion order.
type ConversionJob struct {
	SourcePath string
	Index      int
	OutputPath string
	Options    DecodeOptions
}

// ConversionResult is the outcome of one job: either a written JPEG or a
// captured failure. Workers never surface errors any other way.
type ConversionResult struct {
	Job        ConversionJob
	OutputPath string
	TakenAt    time.Time
	Err        error
}

// Failed reports whether the job produced no output.
func (r ConversionResult) Failed() bool {
	return r.Err != nil
}

// BatchOutcome aggregates all results of one ConvertAll invocation.
// SuccessCount + len(FailedSources) always equals Total.
type BatchOutcome struct {
	OutputDir     string
	Total         int
	SuccessCount  int
	FailedSources []string
	Elapsed       time.Duration
	RangeStart    *time.Time
	RangeEnd      *time.Time
}

// FailureCount returns the number of jobs that produced no output.
func (o BatchOutcome) FailureCount() int {
	return len(o.FailedSources)
}

// Record folds one result into the outcome.
func (o *BatchOutcome) Record(res ConversionResult) {
	if res.Failed() {
		o.FailedSources = append(o.FailedSources, res.Job.SourcePath)
		return
	}
	o.SuccessCount++
	if res.TakenAt.IsZero() {
		return
	}
	if o.RangeStart == nil || res.TakenAt.Before(*o.RangeStart) {
		t := res.TakenAt
		o.RangeStart = &t
	}
	if o.RangeEnd == nil || res.TakenAt.After(*o.RangeEnd) {
		t := res.TakenAt
		o.RangeEnd = &t
	}
}

// IsRawExtension reports whether ext (with leading dot, any case) names a
// RAW camera file the pipeline accepts.
func IsRawExtension(ext string) bool {
	return strings.EqualFold(ext, ".dng")
}

// IsJpegExtension reports whether ext names a JPEG file.
func IsJpegExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// IsRawFile reports whether path names a RAW file by extension.
func IsRawFile(path string) bool {
	return IsRawExtension(filepath.Ext(path))
}
