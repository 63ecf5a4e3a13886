package source

import (
	"context"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// ReadFASTA reads every record of r. A contig is named after the first
// word of its header line. Residues are kept exactly as written, so case
// and gap characters reach the palette.
func ReadFASTA(ctx context.Context, r io.Reader) ([]Contig, error) {
	in := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein))
	var contigs []Contig
	for {
		if len(contigs)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		s, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "fasta record %d", len(contigs)+1)
		}
		ls := s.(*linear.Seq)
		if err := errors.ValidateSegmentName(ls.Name()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "fasta record %d", len(contigs)+1)
		}
		seq := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			seq[i] = byte(l)
		}
		contigs = append(contigs, Contig{Name: ls.Name(), Length: int64(len(seq)), Seq: seq})
	}
	return contigs, nil
}
