package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crypticcostume/costume"
	"github.com/crypticcostume/costume/internal/app13"
)

// command carries the settings shared by every operation.
type command struct {
	cfg    config
	logger *slog.Logger
	out    io.Writer
	now    func() time.Time
}

func (c *command) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *command) printWarnings(warnings []costume.Warning) {
	for _, w := range warnings {
		c.printf("Warning: %s\n", w)
	}
}

func requireFile(path, role string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s file does not exist: %s", role, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s file is a directory: %s", role, path)
	}
	return nil
}

// unpack writes the costume stored in a JPEG file to a JSON document.
func (c *command) unpack(source, target string) error {
	if err := requireFile(source, "Source"); err != nil {
		return err
	}

	c.printf("Unpacking costume\n")
	c.printf("Source:      %s\n", filepath.Base(source))
	c.printf("Destination: %s\n", filepath.Base(target))

	file, err := costume.Open(source, c.cfg.codecOptions(c.logger)...)
	if err != nil {
		return err
	}
	c.printWarnings(file.Warnings)

	c.printf("Decoded costume:\n%s\n", file.Costume.String())

	return writeDocument(target, file.Costume)
}

// pack grafts the costume described by a JSON document into a JPEG file.
func (c *command) pack(source, target string) error {
	if err := requireFile(source, "Source"); err != nil {
		return err
	}
	if err := requireFile(target, "Target"); err != nil {
		return err
	}

	c.printf("Packing costume\n")
	c.printf("Source:      %s\n", source)
	c.printf("Destination: %s\n", target)

	doc, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read costume document: %w", err)
	}
	cos, err := costume.FromJSON(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	c.printf("Loaded costume:\n%s\n", cos.String())

	opts := c.cfg.saveOptions(c.logger)
	if suffix := c.cfg.backupSuffix(c.now()); suffix != "" {
		c.printf("Making a backup of target file at '%s'\n", filepath.Base(target)+suffix)
		opts = append(opts, costume.WithBackup(suffix))
	}
	c.printf("Grafting the costume onto target file\n")

	return costume.Embed(target, cos, opts...)
}

// unpackAll writes the costume of every JPEG file next to it.
func (c *command) unpackAll(ctx context.Context, sources []string) error {
	files, err := costume.OpenMany(ctx, sources, c.cfg.codecOptions(c.logger)...)
	if err != nil {
		return err
	}

	for _, file := range files {
		target := strings.TrimSuffix(file.Path, filepath.Ext(file.Path)) + ".json"
		if err := writeDocument(target, file.Costume); err != nil {
			return err
		}
		c.printf("%s -> %s\n", filepath.Base(file.Path), filepath.Base(target))
		c.printWarnings(file.Warnings)
	}

	c.printf("Unpacked %d costumes\n", len(files))
	return nil
}

// dump lists the marker segments of a JPEG file and the costume it holds.
func (c *command) dump(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c.printf("%s (%d bytes)\n", filepath.Base(path), len(data))
	walkErr := app13.Walk(data, path, func(e app13.Entry) error {
		c.printf("  %-6s offset %8d  length %6d\n", e.Name(), e.Offset, e.Length)
		return nil
	})
	if walkErr != nil {
		c.printf("  segment walk stopped: %v\n", walkErr)
	}

	file, err := costume.OpenBytes(data, path, c.cfg.codecOptions(c.logger)...)
	if err != nil {
		c.printf("No costume: %v\n", err)
		return nil
	}
	c.printf("Costume at offset %d (%d bytes):\n%s\n",
		file.Segment.Offset, file.Segment.Length, file.Costume.String())
	c.printWarnings(file.Warnings)
	return nil
}

func writeDocument(path string, c costume.Costume) error {
	doc, err := costume.ToJSON(c)
	if err != nil {
		return fmt.Errorf("encode costume document: %w", err)
	}
	if err := os.WriteFile(path, append(doc, '\n'), 0o644); err != nil {
		return fmt.Errorf("write costume document: %w", err)
	}
	return nil
}
