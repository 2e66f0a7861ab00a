package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
	apperrors "github.com/mrjulesfletcher/dng-to-video/internal/errors"
)

type mockFS struct {
	dirs   map[string][]string
	exists map[string]bool
}

func (m mockFS) ReadDir(path string) ([]fs.DirEntry, error) {
	names, ok := m.dirs[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	entries := make([]fs.DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, mockDirEntry{name: name})
	}
	return entries, nil
}

func (m mockFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.dirs[path]; ok {
		return mockFileInfo{name: filepath.Base(path)}, nil
	}
	return nil, fs.ErrNotExist
}

func (m mockFS) Exists(path string) (bool, error) {
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	return m.exists[path], nil
}

func (m mockFS) MkdirAll(path string, perm fs.FileMode) error {
	return nil
}

type mockDirEntry struct {
	name  string
	isDir bool
}

func (m mockDirEntry) Name() string               { return m.name }
func (m mockDirEntry) IsDir() bool                { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode          { return 0 }
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name string
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return 0 }
func (m mockFileInfo) Mode() fs.FileMode  { return fs.ModeDir }
func (m mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m mockFileInfo) IsDir() bool        { return true }
func (m mockFileInfo) Sys() interface{}   { return nil }

type mockDecoder struct {
	failOn map[string]bool
	panics bool
}

func (m mockDecoder) Decode(ctx context.Context, path string, opts domain.DecodeOptions) (image.Image, error) {
	if m.panics {
		panic("decoder blew up")
	}
	if m.failOn[filepath.Base(path)] {
		return nil, errors.New("bad sensor data")
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

type mockEncoder struct {
	mu      sync.Mutex
	written []string
	failOn  map[string]bool
}

func (m *mockEncoder) Encode(img image.Image, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[filepath.Base(path)] {
		return errors.New("disk full")
	}
	m.written = append(m.written, path)
	return nil
}

type mockExif struct {
	timestamps map[string]time.Time
}

func (m mockExif) DateTimeOriginal(ctx context.Context, path string) (time.Time, error) {
	if ts, ok := m.timestamps[filepath.Base(path)]; ok {
		return ts, nil
	}
	return time.Time{}, errors.New("missing exif")
}

func TestConvertAllNamesFramesBySortedSource(t *testing.T) {
	inputDir := "/shoot"
	encoder := &mockEncoder{}
	converter := &Converter{
		FS: mockFS{dirs: map[string][]string{
			inputDir: {"frame_b.DNG", "frame_a.dng", "frame_c.dng", "notes.txt"},
		}},
		Decoder: mockDecoder{},
		Encoder: encoder,
		Workers: 2,
	}

	outcome, err := converter.ConvertAll(context.Background(), inputDir, domain.DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Total != 3 || outcome.SuccessCount != 3 {
		t.Fatalf("unexpected counts: total=%d success=%d", outcome.Total, outcome.SuccessCount)
	}
	if outcome.OutputDir != filepath.Join(inputDir, ProcessedDirName) {
		t.Fatalf("unexpected output dir: %s", outcome.OutputDir)
	}

	sort.Strings(encoder.written)
	want := []string{
		filepath.Join(outcome.OutputDir, "frame_00000.jpg"),
		filepath.Join(outcome.OutputDir, "frame_00001.jpg"),
		filepath.Join(outcome.OutputDir, "frame_00002.jpg"),
	}
	if len(encoder.written) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(encoder.written))
	}
	for i, path := range want {
		if encoder.written[i] != path {
			t.Fatalf("frame %d: expected %s, got %s", i, path, encoder.written[i])
		}
	}
}

func TestConvertAllNoRawFiles(t *testing.T) {
	converter := &Converter{
		FS:      mockFS{dirs: map[string][]string{"/empty": {"readme.md"}}},
		Decoder: mockDecoder{},
		Encoder: &mockEncoder{},
	}

	outcome, err := converter.ConvertAll(context.Background(), "/empty", domain.DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != nil {
		t.Fatalf("expected nil outcome, got %+v", outcome)
	}
}

func TestConvertAllMissingInputDir(t *testing.T) {
	converter := &Converter{
		FS:      mockFS{dirs: map[string][]string{}},
		Decoder: mockDecoder{},
		Encoder: &mockEncoder{},
	}

	_, err := converter.ConvertAll(context.Background(), "/nope", domain.DefaultDecodeOptions())
	if err == nil {
		t.Fatal("expected error for missing input dir")
	}
	if apperrors.KindOf(err) != apperrors.InputMissing {
		t.Fatalf("unexpected error kind: %v", apperrors.KindOf(err))
	}
}

func TestConvertAllRecordsFailuresWithoutRenumbering(t *testing.T) {
	inputDir := "/shoot"
	encoder := &mockEncoder{}
	converter := &Converter{
		FS: mockFS{dirs: map[string][]string{
			inputDir: {"a.dng", "b.dng", "c.dng"},
		}},
		Decoder: mockDecoder{failOn: map[string]bool{"b.dng": true}},
		Encoder: encoder,
		Workers: 3,
	}

	outcome, err := converter.ConvertAll(context.Background(), inputDir, domain.DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.SuccessCount != 2 || outcome.FailureCount() != 1 {
		t.Fatalf("unexpected counts: success=%d failed=%d", outcome.SuccessCount, outcome.FailureCount())
	}
	if outcome.FailedSources[0] != filepath.Join(inputDir, "b.dng") {
		t.Fatalf("unexpected failed source: %s", outcome.FailedSources[0])
	}

	// The surviving frames keep their discovery indices; the failed
	// middle frame leaves a gap instead of shifting its successors.
	sort.Strings(encoder.written)
	outputDir := filepath.Join(inputDir, ProcessedDirName)
	want := []string{
		filepath.Join(outputDir, "frame_00000.jpg"),
		filepath.Join(outputDir, "frame_00002.jpg"),
	}
	for i, path := range want {
		if encoder.written[i] != path {
			t.Fatalf("frame %d: expected %s, got %s", i, path, encoder.written[i])
		}
	}
}

func TestConvertAllEncoderFailureIsRecorded(t *testing.T) {
	inputDir := "/shoot"
	converter := &Converter{
		FS: mockFS{dirs: map[string][]string{
			inputDir: {"a.dng", "b.dng"},
		}},
		Decoder: mockDecoder{},
		Encoder: &mockEncoder{failOn: map[string]bool{"frame_00001.jpg": true}},
	}

	outcome, err := converter.ConvertAll(context.Background(), inputDir, domain.DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.SuccessCount != 1 || outcome.FailureCount() != 1 {
		t.Fatalf("unexpected counts: success=%d failed=%d", outcome.SuccessCount, outcome.FailureCount())
	}
}

func TestConvertAllRecoversWorkerPanic(t *testing.T) {
	inputDir := "/shoot"
	converter := &Converter{
		FS: mockFS{dirs: map[string][]string{
			inputDir: {"a.dng"},
		}},
		Decoder: mockDecoder{panics: true},
		Encoder: &mockEncoder{},
	}

	outcome, err := converter.ConvertAll(context.Background(), inputDir, domain.DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.SuccessCount != 0 || outcome.FailureCount() != 1 {
		t.Fatalf("panic not recorded as failure: %+v", outcome)
	}
}

func TestConvertAllReportsMonotonicProgress(t *testing.T) {
	inputDir := "/shoot"
	names := make([]string, 8)
	for i := range names {
		names[i] = fmt.Sprintf("clip_%02d.dng", i)
	}

	var progress []int
	var totals []int
	converter := &Converter{
		FS:      mockFS{dirs: map[string][]string{inputDir: names}},
		Decoder: mockDecoder{},
		Encoder: &mockEncoder{},
		Workers: 4,
		OnProgress: func(completed, total int) {
			progress = append(progress, completed)
			totals = append(totals, total)
		},
	}

	if _, err := converter.ConvertAll(context.Background(), inputDir, domain.DefaultDecodeOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(progress) != len(names) {
		t.Fatalf("expected %d progress calls, got %d", len(names), len(progress))
	}
	for i, completed := range progress {
		if completed != i+1 {
			t.Fatalf("progress call %d reported %d", i, completed)
		}
		if totals[i] != len(names) {
			t.Fatalf("progress call %d reported total %d", i, totals[i])
		}
	}
}

func TestConvertAllTracksShotRange(t *testing.T) {
	inputDir := "/shoot"
	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	last := first.Add(90 * time.Second)

	converter := &Converter{
		FS: mockFS{dirs: map[string][]string{
			inputDir: {"a.dng", "b.dng"},
		}},
		Decoder: mockDecoder{},
		Encoder: &mockEncoder{},
		Exif: mockExif{timestamps: map[string]time.Time{
			"a.dng": first,
			"b.dng": last,
		}},
	}

	outcome, err := converter.ConvertAll(context.Background(), inputDir, domain.DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RangeStart == nil || outcome.RangeEnd == nil {
		t.Fatal("expected shot range to be set")
	}
	if !outcome.RangeStart.Equal(first) || !outcome.RangeEnd.Equal(last) {
		t.Fatalf("unexpected range: %v - %v", outcome.RangeStart, outcome.RangeEnd)
	}
}

func TestFrameNameWidth(t *testing.T) {
	if got := FrameName(0); got != "frame_00000.jpg" {
		t.Fatalf("unexpected name: %s", got)
	}
	if got := FrameName(12345); got != "frame_12345.jpg" {
		t.Fatalf("unexpected name: %s", got)
	}
}
