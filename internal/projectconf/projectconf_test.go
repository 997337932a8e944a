package projectconf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleConfig() *Config {
	return &Config{
		Version:          Version{Major: 0, Minor: 5, Patch: 0},
		ProjectDirectory: "/tmp/p",
		Executable:       "app",
		OutputDirectory:  "bin",
		SourceDirectory:  "src",
		Dialect:          C99,
	}
}

const sampleText = `[buildx]
version = 0.5.0

[project]
project_directory = /tmp/p
executable = app
output_directory = bin
source_directory = src
dialect = c99
`

func TestFormatExactBytes(t *testing.T) {
	got := string(Format(sampleConfig()))
	if diff := cmp.Diff(sampleText, got); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteExactBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, sampleConfig()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleText {
		t.Errorf("written file:\n%s\nwant:\n%s", data, sampleText)
	}
}

func TestRoundTrip(t *testing.T) {
	configs := []*Config{
		sampleConfig(),
		{
			Version:          Version{Major: 1, Minor: 12, Patch: 7},
			ProjectDirectory: "/home/me/my project",
			Executable:       "hello-world",
			OutputDirectory:  "build/out",
			SourceDirectory:  "source code",
			Dialect:          CXX17,
		},
		{
			Version:          Version{Major: 0, Minor: 0, Patch: 0},
			ProjectDirectory: ".",
			Executable:       "a.out",
			OutputDirectory:  "bin",
			SourceDirectory:  "src",
			Dialect:          C11,
		},
	}

	for i, want := range configs {
		path := filepath.Join(t.TempDir(), FileName)
		if err := Write(path, want); err != nil {
			t.Fatalf("case %d: Write() error: %v", i, err)
		}
		got, err := Read(path)
		if err != nil {
			t.Fatalf("case %d: Read() error: %v", i, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("case %d: round trip mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRoundTripEveryDialect(t *testing.T) {
	for _, name := range Dialects() {
		d, err := ParseDialect(name)
		if err != nil {
			t.Fatalf("ParseDialect(%q) error: %v", name, err)
		}
		want := sampleConfig()
		want.Dialect = d

		got, err := Parse(strings.NewReader(string(Format(want))), "test")
		if err != nil {
			t.Fatalf("%s: Parse() error: %v", name, err)
		}
		if got.Dialect != d {
			t.Errorf("%s: Dialect = %v, want %v", name, got.Dialect, d)
		}
	}
}

func TestWriteTwiceIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, sampleConfig()); err != nil {
		t.Fatalf("first Write() error: %v", err)
	}

	other := sampleConfig()
	other.Executable = "other"
	if err := Write(path, other); err != nil {
		t.Fatalf("second Write() error: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Executable != "app" {
		t.Errorf("second Write() modified the file: executable = %q", got.Executable)
	}
}

func TestWriteMissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", FileName)
	err := Write(path, sampleConfig())
	if err == nil {
		t.Fatal("Write() into a missing directory succeeded")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Write() error = %v, want a not-exist error", err)
	}
}

func TestWriteRejectsInvalidRecord(t *testing.T) {
	c := sampleConfig()
	c.Executable = ""

	path := filepath.Join(t.TempDir(), FileName)
	err := Write(path, c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Write() error = %v, want *ValidationError", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Write() created a file for an invalid record")
	}
}

func TestSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, sampleConfig()); err != nil {
		t.Fatal(err)
	}

	updated := sampleConfig()
	updated.Dialect = CXX14
	if err := Save(path, updated); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(updated, got); diff != "" {
		t.Errorf("Save() mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Save() left %d entries in the directory, want 1", len(entries))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != filePerm {
		t.Errorf("permissions = %o, want %o", perm, filePerm)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"text before any section", "hello\n", 1},
		{"unknown section", "[buildx]\nversion = 0.5.0\n\n[other]\n", 4},
		{"section header without blank line", "[buildx]\nversion = 0.5.0\n[project]\n", 3},
		{"bad version", "[buildx]\nversion = 0.5\n", 2},
		{"negative version", "[buildx]\nversion = -1.0.0\n", 2},
		{"prerelease version", "[buildx]\nversion = 0.5.0-rc1\n", 2},
		{"unknown key in buildx", "[buildx]\nname = bx\n", 2},
		{"unknown key in project", "[project]\nexecutable = app\ncompiler = gcc\n", 3},
		{"missing equals", "[project]\nexecutable app\n", 2},
		{"empty value", "[project]\nexecutable = \n", 2},
		{"dialect c89", "[project]\ndialect = c89\n", 2},
		{"indented header", "  [buildx]\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "conf.ini")
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v (%T), want *ParseError", err, err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("ParseError.Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if !strings.Contains(err.Error(), "conf.ini:") {
				t.Errorf("error %q does not name the file", err)
			}
		})
	}
}

func TestParseMissingProjectSection(t *testing.T) {
	_, err := Parse(strings.NewReader("[buildx]\nversion = 0.5.0\n"), "conf.ini")
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Parse() error = %v, want ErrIncomplete", err)
	}
	for _, key := range ProjectKeys {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not list missing key %s", err, key)
		}
	}
}

func TestParseMissingVersion(t *testing.T) {
	input := strings.SplitN(sampleText, "\n\n", 2)[1]
	_, err := Parse(strings.NewReader(input), "conf.ini")
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Parse() error = %v, want ErrIncomplete", err)
	}
	if !strings.Contains(err.Error(), "missing version") {
		t.Errorf("error %q does not name the version", err)
	}
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "conf.ini")
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Parse() error = %v, want ErrIncomplete", err)
	}
}

func TestParseLenientInput(t *testing.T) {
	input := strings.Join([]string{
		"",
		"[project]",
		"dialect=C++17",
		"executable =app",
		"output_directory   =   out",
		"source_directory = src",
		"project_directory = /tmp/p",
		"   ",
		"[buildx]",
		"version = 1.2.3",
		"",
	}, "\r\n")

	got, err := Parse(strings.NewReader(input), "conf.ini")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := &Config{
		Version:          Version{1, 2, 3},
		ProjectDirectory: "/tmp/p",
		Executable:       "app",
		OutputDirectory:  "out",
		SourceDirectory:  "src",
		Dialect:          CXX17,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDuplicateKeyLastWins(t *testing.T) {
	input := sampleText + "\n[project]\nexecutable = second\n"
	got, err := Parse(strings.NewReader(input), "conf.ini")
	if err != nil {
		t.Fatal(err)
	}
	if got.Executable != "second" {
		t.Errorf("Executable = %q, want second", got.Executable)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read() error = %v, want not-exist", err)
	}
}

func TestPath(t *testing.T) {
	got := Path("/work/hello")
	want := filepath.Join("/work/hello", ".buildx", "conf.ini")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
