// Package costume reads and writes the costume records that the game client
// embeds in its JPEG screenshots.
//
// A costume is stored in the Photoshop 3.0 APP13 segment of the screenshot,
// as an IPTC-NAA resource holding eight or nine IPTC tags. This package
// decodes that record, converts it to and from a JSON document, and grafts a
// rebuilt segment into another JPEG file without touching any other byte.
//
// # Quick Start
//
// Reading the costume from a screenshot:
//
//	file, err := costume.Open("screenshot.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(file.Costume.String())
//
// Moving a costume onto another screenshot:
//
//	src, err := costume.Open("mine.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = costume.Embed("theirs.jpg", src.Costume, costume.WithTimestampedBackup())
//
// # Layers
//
//	[File]             - Open, Save, Embed
//	  ├─ [app13]       - locate, extract, pack and graft the APP13 segment
//	  ├─ [record]      - costume fields <-> IPTC tags, JSON documents
//	  └─ [iptc]        - IPTC tag framing
//
// The byte-level operations are also available directly: Extract, Pack,
// Graft and ExtractSegment work on in-memory buffers and never modify their
// input.
//
// # Segment Location
//
// By default the APP13 segment is the first 0xFF 0xED byte pair in the file,
// which is how screenshots written by the game client have always been read.
// WithSegmentScan walks the JPEG marker segments instead, which is immune to
// marker bytes hidden inside earlier segments. ParseScan selects either
// search by its configuration name, "bytes" or "segments".
//
// # Resource Layout
//
// Two encodings of the Photoshop resource header exist. LayoutCompact, the
// default, writes no pad byte after the empty resource name and declares the
// tag stream length without its trailing pad byte. LayoutPhotoshop pads the
// name to an even size and counts the pad byte in the declared length. Use
// the same layout for reading that the file was written with: reading with
// the other one fails with a *CorruptedFileError.
//
// # Error Handling
//
// Fatal problems are reported as typed errors that can be matched with
// errors.As: *UnsupportedFormatError, *MarkerNotFoundError,
// *OutOfBoundsError, *SignatureError, *TagCountError, *EncodingError and
// others. Oddities that do not prevent decoding become warnings:
//
//	for _, w := range file.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// # Logging
//
// The package logs through log/slog at debug level when a logger is supplied
// with WithLogger. Nothing is logged by default.
package costume
