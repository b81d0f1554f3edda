package fileutil

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("Title\n0\n0\n0\n"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func baseNames(files []File) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f.Path)
	}
	slices.Sort(names)
	return names
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{
		"colors.txt",
		"careers.survey",
		"Pets.TXT",
		"notes.md",
		"quiz-01.txt",
		"archive/old.txt",
		"archive/deeper/older.survey",
		".drafts/draft.txt",
		"excluded/skip.txt",
	})

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{
			name: "top level only",
			opts: ScanOptions{},
			want: []string{"Pets.TXT", "careers.survey", "colors.txt", "notes.md", "quiz-01.txt"},
		},
		{
			name: "survey extensions, case-insensitive",
			opts: ScanOptions{Extensions: []string{".txt", "survey"}},
			want: []string{"Pets.TXT", "careers.survey", "colors.txt", "quiz-01.txt"},
		},
		{
			name: "recursive skips hidden and excluded dirs",
			opts: ScanOptions{Extensions: []string{".txt", ".survey"}, Recursive: true, ExcludeDirs: []string{"excluded"}},
			want: []string{"Pets.TXT", "careers.survey", "colors.txt", "old.txt", "older.survey", "quiz-01.txt"},
		},
		{
			name: "depth limit",
			opts: ScanOptions{Extensions: []string{".txt", ".survey"}, Recursive: true, MaxDepth: 2, ExcludeDirs: []string{"excluded"}},
			want: []string{"Pets.TXT", "careers.survey", "colors.txt", "old.txt", "quiz-01.txt"},
		},
		{
			name: "pattern on name without extension",
			opts: ScanOptions{Pattern: `^quiz-\d+$`},
			want: []string{"quiz-01.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			if got := baseNames(result.Files); !slices.Equal(got, tt.want) {
				t.Errorf("files = %v, want %v", got, tt.want)
			}
			if len(result.Errors) != 0 {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
		})
	}
}

func TestScanDirectoryFileDetails(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"b.txt", "a.txt"})
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(tmpDir, "a.txt"), stamp, stamp); err != nil {
		t.Fatal(err)
	}

	result, err := ScanDirectory(tmpDir, ScanOptions{})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(result.Files))
	}

	first := result.Files[0]
	if !filepath.IsAbs(first.Path) || !strings.HasSuffix(first.Path, "a.txt") {
		t.Errorf("expected absolute path to a.txt first, got %q", first.Path)
	}
	if !first.ModTime.Equal(stamp) {
		t.Errorf("ModTime = %v, want %v", first.ModTime, stamp)
	}
	if first.Size != int64(len("Title\n0\n0\n0\n")) {
		t.Errorf("Size = %d", first.Size)
	}

	paths := result.Paths()
	if len(paths) != 2 || paths[0] != first.Path {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestScanDirectoryErrors(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"file.txt"})

	tests := []struct {
		name    string
		dir     string
		opts    ScanOptions
		wantErr string
	}{
		{"missing directory", filepath.Join(tmpDir, "nope"), ScanOptions{}, "failed to access directory"},
		{"file instead of directory", filepath.Join(tmpDir, "file.txt"), ScanOptions{}, "path is not a directory"},
		{"invalid pattern", tmpDir, ScanOptions{Pattern: "[unclosed"}, "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanDirectory(tt.dir, tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestScanDirectoryEmpty(t *testing.T) {
	result, err := ScanDirectory(t.TempDir(), ScanOptions{Recursive: true})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}
	if len(result.Files) != 0 {
		t.Errorf("expected no files, got %v", result.Paths())
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"a.txt", []string{".txt"}, true},
		{"a.TXT", []string{"txt"}, true},
		{"a.survey", []string{".txt", ".survey"}, true},
		{"a.md", []string{".txt"}, false},
		{"noext", []string{".txt"}, false},
		{"anything", nil, true},
	}
	for _, tt := range tests {
		if got := HasExtension(tt.path, tt.exts); got != tt.want {
			t.Errorf("HasExtension(%q, %v) = %v, want %v", tt.path, tt.exts, got, tt.want)
		}
	}
}
