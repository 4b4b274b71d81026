package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crypticcostume/costume"
)

func testJPEG(t *testing.T, c costume.Costume) []byte {
	t.Helper()

	seg, err := costume.Pack(c, costume.WithLayout(costume.LayoutPhotoshop))
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	b := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x07, 'J', 'F', 'I', 'F', 0x00}
	b = append(b, seg...)
	return append(b, 0xFF, 0xD9)
}

func testCostume() costume.Costume {
	return costume.Costume{
		Version:   1,
		GameName:  "Foo",
		GameID:    "foo-1",
		Gender:    "Gender:F",
		Account:   "acct",
		Character: "Hero",
		UID:       "u1",
		Data:      "payload",
	}
}

func runTool(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	args = append([]string{"costume-tool", "-config", filepath.Join(t.TempDir(), "none.ini")}, args...)

	// A missing file named with -config is an error; create an empty one.
	if err := os.WriteFile(args[2], nil, 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String() + stderr.String(), err
}

func TestRun_UnpackPack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mine.jpg")
	dst := filepath.Join(dir, "theirs.jpg")
	doc := filepath.Join(dir, "mine.json")

	if err := os.WriteFile(src, testJPEG(t, testCostume()), 0o644); err != nil {
		t.Fatal(err)
	}
	other := testCostume()
	other.Character = "Stranger"
	original := testJPEG(t, other)
	if err := os.WriteFile(dst, original, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runTool(t, "unpack", src, doc)
	if err != nil {
		t.Fatalf("unpack failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Cryptic Costume Utility v" + costume.Version, "Unpacking costume", "Author=Hero@acct"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}

	out, err = runTool(t, "pack", doc, dst)
	if err != nil {
		t.Fatalf("pack failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Making a backup of target file at 'theirs.jpg.") {
		t.Errorf("output should name the backup file:\n%s", out)
	}

	file, err := costume.Open(dst, costume.WithLayout(costume.LayoutPhotoshop))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	want := testCostume()
	if !file.Costume.Equal(&want) {
		t.Errorf("Costume = %s, want %s", file.Costume.String(), want.String())
	}

	backups, _ := filepath.Glob(dst + ".*.bak")
	if len(backups) != 1 {
		t.Fatalf("expected one timestamped backup, got %v", backups)
	}
	if !strings.Contains(out, filepath.Base(backups[0])) {
		t.Errorf("output should contain %q:\n%s", filepath.Base(backups[0]), out)
	}
	saved, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(saved, original) {
		t.Error("backup should hold the original target")
	}
}

func TestRun_DefaultLayout(t *testing.T) {
	dir := t.TempDir()
	compact, err := costume.Pack(testCostume())
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	path := filepath.Join(dir, "compact.jpg")
	data := append([]byte{0xFF, 0xD8}, compact...)
	if err := os.WriteFile(path, append(data, 0xFF, 0xD9), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runTool(t, "unpack", path, filepath.Join(dir, "compact.json")); err == nil {
		t.Error("a compact segment should not decode with the default layout")
	}
	if _, err := os.Stat(filepath.Join(dir, "compact.json")); err == nil {
		t.Error("no document should be written for an undecodable file")
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"costume-tool", "-version"}, &stdout, &stderr); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Cryptic Costume Utility " + costume.Version, "commit:", "go:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Usage:") {
		t.Errorf("-version should not print usage:\n%s", out)
	}
}

func TestRun_UnpackAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.jpg", "b.jpg"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, testJPEG(t, testCostume()), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	out, err := runTool(t, append([]string{"unpack-all"}, paths...)...)
	if err != nil {
		t.Fatalf("unpack-all failed: %v\n%s", err, out)
	}

	for _, name := range []string{"a.json", "b.json"} {
		doc, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		c, err := costume.FromJSON(doc)
		if err != nil {
			t.Fatalf("FromJSON(%s) failed: %v", name, err)
		}
		want := testCostume()
		if !c.Equal(&want) {
			t.Errorf("%s: Costume = %s", name, c.String())
		}
	}
}

func TestRun_Dump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.jpg")
	if err := os.WriteFile(path, testJPEG(t, testCostume()), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runTool(t, "dump", path)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	for _, want := range []string{"SOI", "APP0", "APP13", "EOI", "Costume at offset 11"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q:\n%s", want, out)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		contains  string
	}{
		{name: "no command", args: nil, wantUsage: true},
		{name: "unknown command", args: []string{"convert", "a", "b"}, wantUsage: true},
		{name: "missing operand", args: []string{"unpack", "a.jpg"}, wantUsage: true},
		{name: "missing source", args: []string{"unpack", filepath.Join(dir, "x.jpg"), filepath.Join(dir, "x.json")}, contains: "Source file does not exist"},
		{name: "missing target", args: []string{"pack", os.Args[0], filepath.Join(dir, "x.jpg")}, contains: "Target file does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runTool(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantUsage {
				if !errors.Is(err, errUsage) {
					t.Errorf("expected usage error, got %v", err)
				}
				if !strings.Contains(out, "Usage:") {
					t.Errorf("usage text should be printed:\n%s", out)
				}
				return
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err, tt.contains)
			}
		})
	}
}
