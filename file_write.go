package costume

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crypticcostume/costume/internal/app13"
)

// Save packs f.Costume and writes it back into the original file.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the original path. If any step fails, the original file remains unchanged.
//
// Options can be provided to customize save behavior:
//
//	err := file.Save(
//	    costume.WithBackup(".bak"),
//	    costume.WithValidation(),
//	)
func (f *File) Save(opts ...SaveOption) error {
	return f.SaveAs(f.Path, opts...)
}

// SaveAs packs f.Costume, grafts it into the JPEG the file was read from and
// writes the result to outputPath.
//
// This is an atomic operation: writes to a temporary file first, then renames
// to the output path. If any step fails, any partially written data is cleaned up.
func (f *File) SaveAs(outputPath string, opts ...SaveOption) error {
	if f.data == nil {
		return fmt.Errorf("file not open: no JPEG data")
	}

	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}

	codec := defaultOptions()
	if f.options != nil {
		c := *f.options
		codec = &c
	}
	for _, opt := range options.codec {
		opt(codec)
	}

	return writeCostume(outputPath, f.data, f.Costume, codec, options)
}

// Embed packs c and grafts it into the JPEG file at target, replacing the
// costume it already holds.
//
// Example:
//
//	c, err := costume.FromJSON(doc)
//	if err != nil {
//		return err
//	}
//	err = costume.Embed("shot.jpg", c, costume.WithTimestampedBackup())
func Embed(target string, c Costume, opts ...SaveOption) error {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}
	codec := applyOptions(options.codec)

	data, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read target: %w", err)
	}

	return writeCostume(target, data, c, codec, options)
}

func writeCostume(outputPath string, data []byte, c Costume, codec *openOptions, options *saveOptions) error {
	seg, err := app13.Pack(c, codec.layout)
	if err != nil {
		return fmt.Errorf("pack costume: %w", err)
	}
	out, err := app13.Graft(data, seg, codec.app13(outputPath))
	if err != nil {
		return fmt.Errorf("graft costume: %w", err)
	}

	backup, err := writeAtomic(outputPath, out, options)
	if err != nil {
		return err
	}

	codec.logger.Debug("costume saved",
		"path", outputPath,
		"bytes", len(out),
		"backup", backup)

	// Handle validate option (re-open and compare the costume)
	if options.validate {
		if err := validateWrittenFile(outputPath, c, codec); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// writeAtomic replaces outputPath with data and returns the backup path,
// if one was made.
func writeAtomic(outputPath string, data []byte, options *saveOptions) (string, error) { //nolint:gocyclo // Atomic file operations require sequential steps
	// Get original file's mode and mod time
	orig, statErr := os.Stat(outputPath)

	// Create temp file in same directory as output (for atomic rename)
	outputDir := filepath.Dir(outputPath)
	tempFile, err := os.CreateTemp(outputDir, ".costume-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}

	if statErr == nil {
		if err := tempFile.Chmod(orig.Mode().Perm()); err != nil {
			return "", fmt.Errorf("chmod temp file: %w", err)
		}
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}

	// Close temp file before rename
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	// Handle backup option (rename original before replace)
	backupPath := ""
	if statErr == nil {
		backupPath = options.backupPath(outputPath)
		if backupPath != "" {
			if err := os.Rename(outputPath, backupPath); err != nil {
				return "", fmt.Errorf("create backup: %w", err)
			}
		}
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, outputPath); err != nil {
		return "", fmt.Errorf("rename temp to output: %w", err)
	}

	// Mark success so defer doesn't clean up
	success = true

	// Handle preserveModTime option
	if options.preserveModTime && statErr == nil {
		_ = os.Chtimes(outputPath, orig.ModTime(), orig.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	return backupPath, nil
}

// validateWrittenFile re-opens the file and compares the costume.
func validateWrittenFile(path string, want Costume, codec *openOptions) error {
	written, err := openFile(path, codec)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	if !written.Costume.Equal(&want) {
		return fmt.Errorf("costume mismatch: got %s, want %s", written.Costume.String(), want.String())
	}
	return nil
}
