package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	dir, err := New(io.Discard, LogInfo).cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := New(io.Discard, LogInfo).cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigured(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg.Cache.Dir = "/srv/seqgrid-cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/seqgrid-cache" {
		t.Errorf("cacheDir() = %q, want the configured directory", dir)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, ext string
		want               string
	}{
		{"", "hg38.fa", ".png", "hg38.png"},
		{"", "data/hg38.fa.gz", ".png", "data/hg38.png"},
		{"", "data/mm10.fasta.lz4", ".layout.json", "data/mm10.layout.json"},
		{"", "reads.bam", ".png", "reads.png"},
		{"out.png", "hg38.fa", ".png", "out.png"},
		{"-", "hg38.fa", ".png", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.input+tt.ext, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.ext); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.ext, got, tt.want)
			}
		})
	}
}

func TestListenURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"0.0.0.0:9000":   "http://0.0.0.0:9000",
		"localhost:3000": "http://localhost:3000",
	}
	for addr, want := range tests {
		if got := listenURL(addr); got != want {
			t.Errorf("listenURL(%q) = %q, want %q", addr, got, want)
		}
	}
}
