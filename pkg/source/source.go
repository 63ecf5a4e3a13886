package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/observability"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// Contig is one named sequence. Seq is nil when the input only describes
// lengths.
type Contig struct {
	Name   string
	Length int64
	Seq    []byte
}

// HasSequence reports whether the residues are available for drawing.
func (c Contig) HasSequence() bool { return c.Seq != nil }

// Format identifies an input kind.
type Format int

const (
	FormatUnknown Format = iota
	FormatFASTA
	FormatBAM
	FormatSAM
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatBAM:
		return "bam"
	case FormatSAM:
		return "sam"
	case FormatTOML:
		return "toml"
	}
	return "unknown"
}

// compression is the outer wrapper of a file.
type compression int

const (
	plain compression = iota
	gzipped
	lz4ed
)

// Detect classifies path by its extensions, e.g. "hg38.fa.gz".
func Detect(path string) (Format, compression) {
	name := strings.ToLower(filepath.Base(path))
	comp := plain
	switch {
	case strings.HasSuffix(name, ".gz"):
		comp, name = gzipped, strings.TrimSuffix(name, ".gz")
	case strings.HasSuffix(name, ".lz4"):
		comp, name = lz4ed, strings.TrimSuffix(name, ".lz4")
	}
	switch filepath.Ext(name) {
	case ".fa", ".fasta", ".fna", ".faa", ".fas":
		return FormatFASTA, comp
	case ".bam":
		return FormatBAM, comp
	case ".sam":
		return FormatSAM, comp
	case ".toml":
		return FormatTOML, comp
	}
	return FormatUnknown, comp
}

// Open opens path and strips a .gz or .lz4 wrapper.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	_, comp := Detect(path)
	switch comp {
	case gzipped:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "gzip %s", path)
		}
		return &stacked{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case lz4ed:
		return &stacked{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}

// stacked closes a decompressor and its file together.
type stacked struct {
	io.Reader
	closers []io.Closer
}

func (s *stacked) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReadFile reads every contig of path.
func ReadFile(ctx context.Context, path string) (contigs []Contig, err error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	start := time.Now()
	observability.Layout().OnReadStart(ctx, path)
	defer func() {
		observability.Layout().OnReadComplete(ctx, path, len(contigs), time.Since(start), err)
	}()

	format, _ := Detect(path)
	if format == FormatBAM {
		// BAM is BGZF already; it must not be decompressed twice.
		return ReadBAMHeader(path)
	}
	if format == FormatUnknown {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"%s: unknown input format (want .fa, .fasta, .fna, .bam, .sam or .toml)", path)
	}

	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	switch format {
	case FormatFASTA:
		contigs, err = ReadFASTA(ctx, r)
	case FormatSAM:
		contigs, err = ReadSAMHeader(r)
	case FormatTOML:
		contigs, err = ReadSegmentList(r)
	}
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidFormat
		}
		return nil, errors.Wrap(code, err, "read %s", path)
	}
	if len(contigs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s contains no sequences", path)
	}
	return contigs, nil
}

// Segments converts contigs to allocator input, keeping their order.
func Segments(contigs []Contig) []tile.Segment {
	segs := make([]tile.Segment, len(contigs))
	for i, c := range contigs {
		segs[i] = tile.Segment{Name: c.Name, Length: c.Length}
	}
	return segs
}

// Index returns the contigs keyed by name.
func Index(contigs []Contig) map[string]Contig {
	m := make(map[string]Contig, len(contigs))
	for _, c := range contigs {
		m[c.Name] = c
	}
	return m
}
