package pipeline

import (
	"context"

	"github.com/matzehuels/seqgrid/pkg/source"
)

// Read loads contigs from path and, when names is non-empty, keeps only
// the named contigs in file order.
func Read(ctx context.Context, path string, names []string) ([]source.Contig, error) {
	contigs, err := source.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return contigs, nil
	}
	return source.Filter(contigs, names)
}
