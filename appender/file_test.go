package appender

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipp01105/logtree/core"
)

func TestFile_Basic(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "test.log")

	f, err := NewFile(FileConfig{Options: Options{Name: "file"}, Filename: filename})
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	f.DoAppend(newEvent(core.InfoLevel, "file test"))
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "file test") {
		t.Errorf("Expected 'file test' in file, got: %s", content)
	}
}

func TestFile_RequiresFilename(t *testing.T) {
	if _, err := NewFile(FileConfig{}); err == nil {
		t.Error("NewFile() error = nil, want error")
	}
}

func TestFile_AppendAndTruncate(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(filename, []byte("old line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := NewFile(FileConfig{Filename: filename})
	if err != nil {
		t.Fatal(err)
	}
	f.DoAppend(newEvent(core.InfoLevel, "appended"))
	f.Close()

	content, _ := os.ReadFile(filename)
	if !strings.HasPrefix(string(content), "old line\n") || !strings.Contains(string(content), "appended") {
		t.Errorf("append mode content = %q", content)
	}

	f, err = NewFile(FileConfig{Filename: filename, Truncate: true})
	if err != nil {
		t.Fatal(err)
	}
	f.DoAppend(newEvent(core.InfoLevel, "fresh"))
	f.Close()

	content, _ = os.ReadFile(filename)
	if strings.Contains(string(content), "old line") {
		t.Errorf("truncate mode kept old content: %q", content)
	}
}

func TestFile_Buffered(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "buffered.log")
	f, err := NewFile(FileConfig{Filename: filename, BufferSize: 4096})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	f.DoAppend(newEvent(core.InfoLevel, "buffered"))
	if content, _ := os.ReadFile(filename); len(content) != 0 {
		t.Errorf("content before Flush = %q, want empty", content)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if content, _ := os.ReadFile(filename); !strings.Contains(string(content), "buffered") {
		t.Errorf("content after Flush = %q", content)
	}
}

func TestFile_SizeRotation(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "rotate.log")
	f, err := NewFile(FileConfig{
		Filename:   filename,
		MaxSize:    64,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for i := 0; i < 20; i++ {
		f.DoAppend(newEvent(core.InfoLevel, strings.Repeat("x", 40)))
	}

	if f.Rotations() == 0 {
		t.Fatal("Rotations() = 0, want rotation after exceeding MaxSize")
	}
	if got := len(f.Backups()); got != 2 {
		t.Errorf("len(Backups()) = %d, want 2", got)
	}
	if _, err := os.Stat(filename); err != nil {
		t.Errorf("active file missing after rotation: %v", err)
	}
}

func TestFile_BackupsIgnoreForeignFiles(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "app")
	foreign := []string{
		filepath.Join(dir, "app.1-settings.yaml"),
		filepath.Join(dir, "app.0"),
	}
	for _, name := range foreign {
		if err := os.WriteFile(name, []byte("keep"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := NewFile(FileConfig{Filename: filename, MaxSize: 1, MaxBackups: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for i := 0; i < 3; i++ {
		f.DoAppend(newEvent(core.InfoLevel, "rotate me"))
	}

	for _, name := range foreign {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("unrelated file %s removed: %v", filepath.Base(name), err)
		}
	}
	got := f.Backups()
	if len(got) != 1 {
		t.Fatalf("Backups() = %v, want one rotated file", got)
	}
	for _, name := range foreign {
		if got[0] == name {
			t.Errorf("Backups() lists unrelated file %s", name)
		}
	}
}

func TestIsBackup(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"app.2026-10-18T03-01-41.117719654", true},
		{"app.1-settings.yaml", false},
		{"app.0", false},
		{"app", false},
		{"application.2026-10-18T03-01-41.117719654", false},
		{"app.2026-10-18T03-01-41.117719654.gz", false},
	}
	for _, tt := range tests {
		if got := isBackup("app", tt.name); got != tt.want {
			t.Errorf("isBackup(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFile_WriteAfterClose(t *testing.T) {
	observeDiag(t)
	filename := filepath.Join(t.TempDir(), "closed.log")
	f, err := NewFile(FileConfig{Filename: filename})
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	f.DoAppend(newEvent(core.InfoLevel, "ignored"))

	if content, _ := os.ReadFile(filename); len(content) != 0 {
		t.Errorf("content = %q, want empty", content)
	}
}
