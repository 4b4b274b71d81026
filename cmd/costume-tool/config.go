package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/crypticcostume/costume"
)

// defaultConfigFile is read from the working directory when present.
const defaultConfigFile = "costume.ini"

// Backup modes understood by the backup key. Any other value is used as a
// file name suffix.
const (
	backupTimestamped = "timestamped"
	backupNone        = "none"
)

// config holds the tool settings read from an ini file. The layout
// defaults to the one the game client writes.
//
//	layout         = photoshop | compact
//	scan           = bytes | segments
//	insert_missing = false
//	backup         = timestamped | none | <suffix>
//	log_level      = debug | info | warn | error
type config struct {
	Layout        costume.Layout
	Scan          string
	InsertMissing bool
	Backup        string
	LogLevel      slog.Level
}

func defaultConfig() config {
	return config{
		Layout:   costume.LayoutPhotoshop,
		Scan:     "bytes",
		Backup:   backupTimestamped,
		LogLevel: slog.LevelWarn,
	}
}

// loadConfig reads path on top of the defaults. A missing file is only an
// error when required is set.
func loadConfig(path string, required bool) (config, error) {
	cfg := defaultConfig()

	file, err := ini.Load(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: %w", err)
	}

	sec := file.Section("")

	if name := sec.Key("layout").String(); name != "" {
		if cfg.Layout, err = costume.ParseLayout(name); err != nil {
			return cfg, fmt.Errorf("%s: layout: %w", path, err)
		}
	}

	if scan := strings.ToLower(sec.Key("scan").String()); scan != "" {
		if _, err := costume.ParseScan(scan); err != nil {
			return cfg, fmt.Errorf("%s: scan: %w", path, err)
		}
		cfg.Scan = scan
	}

	if sec.HasKey("insert_missing") {
		if cfg.InsertMissing, err = sec.Key("insert_missing").Bool(); err != nil {
			return cfg, fmt.Errorf("%s: insert_missing: %w", path, err)
		}
	}

	if backup := strings.TrimSpace(sec.Key("backup").String()); backup != "" {
		cfg.Backup = backup
	}

	if level := sec.Key("log_level").String(); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return cfg, fmt.Errorf("%s: log_level: %w", path, err)
		}
	}

	return cfg, nil
}

// codecOptions returns the options used to read and encode costumes.
func (c config) codecOptions(logger *slog.Logger) []costume.Option {
	opts := []costume.Option{
		costume.WithLayout(c.Layout),
		costume.WithLogger(logger),
	}
	if scan, err := costume.ParseScan(c.Scan); err == nil {
		opts = append(opts, scan)
	}
	if c.InsertMissing {
		opts = append(opts, costume.WithInsertMissing())
	}
	return opts
}

// saveOptions returns the options used when writing a costume into a file.
// Backups are added by the caller with backupSuffix.
func (c config) saveOptions(logger *slog.Logger) []costume.SaveOption {
	return []costume.SaveOption{
		costume.WithCodec(c.codecOptions(logger)...),
		costume.WithValidation(),
	}
}

// backupSuffix returns the suffix appended to the target file name for its
// backup, or "" when backups are disabled.
func (c config) backupSuffix(now time.Time) string {
	switch c.Backup {
	case backupTimestamped:
		return "." + strconv.FormatInt(now.Unix(), 10) + ".bak"
	case backupNone:
		return ""
	default:
		return c.Backup
	}
}
