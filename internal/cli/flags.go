package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/config"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
)

// layoutFlags are the tiled-layout flags shared by layout, levels, render,
// inspect and parallel. Only flags the user set override the config file.
type layoutFlags struct {
	baseWidth   int64
	borderWidth int64
	custom      string
	noTitles    bool
	skipSmall   bool
	sortBySize  bool
	palette     string
	names       []string
	noCache     bool
	refresh     bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.Int64Var(&f.baseWidth, "base-width", d.Layout.BaseWidth, "nucleotides per line")
	fs.Int64Var(&f.borderWidth, "border", d.Layout.BorderWidth, "border around the image in pixels")
	fs.StringVar(&f.custom, "custom-layout", "", `custom hierarchy "([modulos...],[paddings...])"`)
	fs.BoolVar(&f.noTitles, "no-titles", false, "reserve no space for segment titles")
	fs.BoolVar(&f.skipSmall, "skip-small-titles", false, "omit titles of segments shorter than the threshold")
	fs.BoolVar(&f.sortBySize, "sort", false, "lay out segments longest first")
	fs.StringVar(&f.palette, "palette", d.Render.Palette, "nucleotide palette: classic, natural")
	fs.StringSliceVar(&f.names, "contigs", nil, "only lay out these contigs (comma-separated)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// apply copies every flag the user set onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("base-width") {
		opts.BaseWidth = f.baseWidth
	}
	if fs.Changed("border") {
		opts.BorderWidth = f.borderWidth
	}
	if fs.Changed("custom-layout") {
		opts.CustomLayout = f.custom
	}
	if fs.Changed("no-titles") {
		opts.NoTitles = f.noTitles
	}
	if fs.Changed("skip-small-titles") {
		opts.SkipSmallTitles = f.skipSmall
	}
	if fs.Changed("sort") {
		opts.SortBySize = f.sortBySize
	}
	if fs.Changed("palette") {
		opts.Palette = f.palette
	}
	opts.Refresh = f.refresh
}

// outputPath returns output, or input with its extensions replaced by ext.
// Compression suffixes are stripped as well, so hg38.fa.gz becomes hg38.png.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return stem(input) + ext
}

// stem strips the directory, a compression suffix and the format extension.
func stem(path string) string {
	base := filepath.Base(path)
	for _, z := range []string{".gz", ".lz4"} {
		base = strings.TrimSuffix(base, z)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(path), base)
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
