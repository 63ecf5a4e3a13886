package source

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

type segmentList struct {
	Segment []struct {
		Name   string `toml:"name"`
		Length int64  `toml:"length"`
	} `toml:"segment"`
}

// ReadSegmentList reads a TOML file of [[segment]] tables.
func ReadSegmentList(r io.Reader) ([]Contig, error) {
	var list segmentList
	md, err := toml.NewDecoder(r).Decode(&list)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "segment list")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "segment list: unknown key %s", undecoded[0])
	}
	contigs := make([]Contig, len(list.Segment))
	for i, s := range list.Segment {
		if err := errors.ValidateSegmentName(s.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d", i+1)
		}
		if s.Length < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "segment %q: negative length %d", s.Name, s.Length)
		}
		contigs[i] = Contig{Name: s.Name, Length: s.Length}
	}
	return contigs, nil
}
