package costume

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/crypticcostume/costume/internal/app13"
	"github.com/crypticcostume/costume/internal/registry"
	"github.com/crypticcostume/costume/internal/types"
)

// Option configures how JPEG buffers are read and how costumes are encoded.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := costume.Open("screenshot.jpg",
//	    costume.WithStrictParsing(),
//	    costume.WithSegmentScan(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
	insertMissing  bool // Graft into files without APP13
	scan           app13.Scanner
	layout         types.Layout
	logger         *slog.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		scan:   app13.ScanBytes,
		layout: types.LayoutCompact,
		logger: slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) *openOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// app13 returns the segment options for a buffer read from path.
func (o *openOptions) app13(path string) app13.Options {
	return app13.Options{
		Path:          path,
		Scan:          o.scan,
		Layout:        o.layout,
		InsertMissing: o.insertMissing,
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, extraction continues past oddities such as a named resource
// or stray bytes after the tag stream, returning warnings alongside the
// decoded costume.
//
// Example:
//
//	file, err := costume.Open("screenshot.jpg", costume.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// Example:
//
//	file, err := costume.Open("screenshot.jpg", costume.WithIgnoreWarnings())
//	// file.Warnings will always be empty
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithSegmentScan locates the APP13 segment by walking the JPEG marker
// segments instead of searching for the first 0xFF 0xED byte pair.
//
// The byte search can be fooled by marker bytes embedded in an earlier
// segment, such as an EXIF thumbnail. The segment walk cannot, but it
// rejects files whose headers are malformed.
func WithSegmentScan() Option {
	return func(o *openOptions) {
		o.scan = app13.ScanSegments
	}
}

// ParseScan returns the option selecting the APP13 search registered under
// name: "bytes" for the byte search or "segments" for the segment walk.
// An empty name selects the byte search.
func ParseScan(name string) (Option, error) {
	if name == "" {
		name = app13.ScanNameBytes
	}
	scan := registry.Get(strings.ToLower(name))
	if scan == nil {
		return nil, fmt.Errorf("unknown scan %q (want one of %s)", name, strings.Join(registry.Names(), ", "))
	}
	return func(o *openOptions) {
		o.scan = scan
	}, nil
}

// WithLayout selects the Photoshop resource header layout used for reading
// and packing. The default is LayoutCompact.
//
// Example:
//
//	seg, err := costume.Pack(c, costume.WithLayout(costume.LayoutPhotoshop))
func WithLayout(l Layout) Option {
	return func(o *openOptions) {
		o.layout = l
	}
}

// WithInsertMissing lets Graft and Save handle JPEG files that have no APP13
// segment by inserting the new segment right after the SOI marker.
func WithInsertMissing() Option {
	return func(o *openOptions) {
		o.insertMissing = true
	}
}

// WithLogger sets the logger used for debug output. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
