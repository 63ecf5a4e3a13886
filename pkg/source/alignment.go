package source

import (
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// ReadBAMHeader returns one contig per reference in the BAM header.
func ReadBAMHeader(path string) ([]Contig, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bam header %s", path)
	}
	defer br.Close()
	return fromHeader(br.Header())
}

// ReadSAMHeader returns one contig per @SQ line of a SAM stream. Only the
// header is consumed.
func ReadSAMHeader(r io.Reader) ([]Contig, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "sam header")
	}
	return fromHeader(sr.Header())
}

func fromHeader(h *sam.Header) ([]Contig, error) {
	refs := h.Refs()
	contigs := make([]Contig, 0, len(refs))
	for _, ref := range refs {
		if err := errors.ValidateSegmentName(ref.Name()); err != nil {
			return nil, err
		}
		contigs = append(contigs, Contig{Name: ref.Name(), Length: int64(ref.Len())})
	}
	return contigs, nil
}
