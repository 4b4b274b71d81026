package costume

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/crypticcostume/costume/internal/app13"
)

// File represents an opened costume screenshot.
//
// The whole JPEG is held in memory so the costume can be modified and
// written back with Save without reopening the file:
//
//	file, err := costume.Open("screenshot.jpg")
//	if err != nil {
//		return err
//	}
//	file.Costume.Character = "Hero"
//	err = file.Save(costume.WithBackup(".bak"))
type File struct {
	// Path to the JPEG file
	Path string

	// File size in bytes
	Size int64

	// Decoded costume record
	Costume Costume

	// Location of the APP13 segment the costume was read from
	Segment Segment

	// Warnings encountered during extraction (non-fatal issues)
	Warnings []Warning

	data    []byte
	options *openOptions
}

// Open reads a JPEG file and decodes the costume stored in it.
//
// Options can be provided to customize parsing behavior:
//
//	file, err := costume.Open("screenshot.jpg",
//	    costume.WithStrictParsing(),
//	    costume.WithLayout(costume.LayoutPhotoshop),
//	)
func Open(path string, opts ...Option) (*File, error) {
	return openFile(path, applyOptions(opts))
}

func openFile(path string, options *openOptions) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return openBytes(data, path, options)
}

// OpenBytes decodes the costume stored in an in-memory JPEG buffer. path is
// used in error messages and as the default Save destination; it may be
// empty.
func OpenBytes(data []byte, path string, opts ...Option) (*File, error) {
	return openBytes(data, path, applyOptions(opts))
}

func openBytes(data []byte, path string, options *openOptions) (*File, error) {
	res, err := app13.Extract(data, options.app13(path))
	if err != nil {
		return nil, fmt.Errorf("extract costume: %w", err)
	}

	file := &File{
		Path:     path,
		Size:     int64(len(data)),
		Costume:  res.Costume,
		Segment:  res.Segment,
		Warnings: res.Warnings,
		data:     data,
		options:  options,
	}

	for _, w := range file.Warnings {
		options.logger.Debug("costume warning",
			"path", path,
			"stage", w.Stage,
			"offset", w.Offset,
			"message", w.Message)
	}

	// Check strict parsing mode
	if options.strictParsing && len(file.Warnings) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", file.Warnings[0])
	}

	// Apply option: ignore warnings
	if options.ignoreWarnings {
		file.Warnings = nil
	}

	options.logger.Debug("costume extracted",
		"path", path,
		"segment_offset", file.Segment.Offset,
		"segment_length", file.Segment.Length,
		"species", file.Costume.HasSpecies())

	return file, nil
}

// SegmentBytes returns a copy of the APP13 segment the costume was read
// from, marker and length included.
func (f *File) SegmentBytes() []byte {
	return append([]byte(nil), f.data[f.Segment.Offset:f.Segment.End()]...)
}

// OpenContext opens a file with context support for cancellation.
//
// This is a thin wrapper around Open() that checks the context before
// reading the file.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple costume screenshots concurrently.
//
// Files are read in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails to open, the remaining work is cancelled and the first error is
// returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	files, err := costume.OpenMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range files {
//		fmt.Printf("%s: %s\n", f.Path, f.Costume.String())
//	}
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			// Check for cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
