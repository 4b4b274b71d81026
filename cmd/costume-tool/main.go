// Command costume-tool moves costume records between game screenshots and
// JSON documents.
//
// Usage:
//
//	costume-tool [-config costume.ini] [-v] unpack source.jpg target.json
//	costume-tool [-config costume.ini] [-v] pack source.json target.jpg
//	costume-tool [-config costume.ini] [-v] unpack-all shot1.jpg shot2.jpg ...
//	costume-tool [-config costume.ini] [-v] dump shot.jpg
//	costume-tool -version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/crypticcostume/costume"
)

// Program header.
const (
	programName    = "Cryptic Costume Utility"
	programAuthor  = "Emzi0767"
	programSource  = "https://github.com/Emzi0767/CrypticCostumeUtils"
	programLicense = "Apache License 2.0"
)

const usageText = `Usage:

To unpack a file:
  %[1]s unpack source.jpg target.json
  Source JPEG file must exist and contain a saved costume. The target file will be overwritten.

To pack a file:
  %[1]s pack source.json target.jpg
  Both source JSON and target JPEG file must exist. A backup file of the JPEG will be created alongside the patched file.

To unpack several files:
  %[1]s unpack-all shot1.jpg shot2.jpg ...
  Each costume is written next to its JPEG file with a .json extension.

To list the segments of a file:
  %[1]s dump shot.jpg

Flags:
`

// errUsage is returned when the command line cannot be understood.
var errUsage = errors.New("invalid arguments")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args, os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	name := filepath.Base(args[0])

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", defaultConfigFile, "settings file")
	verbose := flags.Bool("v", false, "log debug output")
	version := flags.Bool("version", false, "print version information and exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, usageText, name)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args[1:]); err != nil {
		return errUsage
	}

	if *version {
		printVersion(stdout)
		return nil
	}

	configSet := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configSet = true
		}
	})

	cfg, err := loadConfig(*configPath, configSet)
	if err != nil {
		return err
	}
	if *verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	printHeader(stdout)

	cmd := &command{
		cfg:    cfg,
		logger: logger,
		out:    stdout,
		now:    time.Now,
	}

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return errUsage
	}

	switch op, operands := rest[0], rest[1:]; {
	case op == "unpack" && len(operands) == 2:
		return cmd.unpack(operands[0], operands[1])
	case op == "pack" && len(operands) == 2:
		return cmd.pack(operands[0], operands[1])
	case op == "unpack-all" && len(operands) > 0:
		return cmd.unpackAll(ctx, operands)
	case op == "dump" && len(operands) == 1:
		return cmd.dump(operands[0])
	default:
		flags.Usage()
		return errUsage
	}
}

func printHeader(w io.Writer) {
	fmt.Fprintf(w, "%s v%s by %s\n", programName, costume.Version, programAuthor)
	fmt.Fprintf(w, "Source code available at %s\n", programSource)
	fmt.Fprintf(w, "Licensed under %s (see %s/blob/master/LICENSE.TXT for details)\n\n", programLicense, programSource)
}

func printVersion(w io.Writer) {
	info := costume.GetVersionInfo()
	fmt.Fprintf(w, "%s %s\n", programName, info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.GitCommit)
	fmt.Fprintf(w, "built:  %s\n", info.BuildTime)
	fmt.Fprintf(w, "go:     %s\n", info.GoVersion)
}
