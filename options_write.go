package costume

import (
	"strconv"
	"time"
)

// SaveOption configures behavior when writing costume screenshots.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := file.Save(
//	    costume.WithBackup(".bak"),
//	    costume.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	timestamped     bool   // Backup named <file>.<unix time>.bak
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
	codec           []Option
	now             func() time.Time
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{
		now: time.Now,
	}
}

// backupPath returns where the existing file at path is moved before it is
// replaced, or "" when no backup was requested.
func (o *saveOptions) backupPath(path string) string {
	switch {
	case o.timestamped:
		return path + "." + strconv.FormatInt(o.now().Unix(), 10) + ".bak"
	case o.backupSuffix != "":
		return path + o.backupSuffix
	default:
		return ""
	}
}

// WithBackup keeps the original file before saving.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "shot.jpg.bak"
// before modifying "shot.jpg".
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithTimestampedBackup keeps the original file under a name carrying the
// current Unix time, e.g. "shot.jpg.1700000000.bak". It takes precedence
// over WithBackup.
func WithTimestampedBackup() SaveOption {
	return func(o *saveOptions) {
		o.timestamped = true
	}
}

// WithValidation re-reads the file after writing and checks that it holds
// the costume that was saved.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithCodec sets the options used to pack and graft the costume, and to read
// the file back for validation.
//
// Example:
//
//	err := costume.Embed("shot.jpg", c,
//	    costume.WithCodec(costume.WithLayout(costume.LayoutPhotoshop)),
//	)
func WithCodec(opts ...Option) SaveOption {
	return func(o *saveOptions) {
		o.codec = append(o.codec, opts...)
	}
}
