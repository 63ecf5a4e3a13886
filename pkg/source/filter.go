package source

import (
	"sort"
	"strings"

	set "gopkg.in/fatih/set.v0"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// Filter keeps the contigs named in names, in input order. An empty names
// keeps everything. Naming a contig that is not present is an error.
func Filter(contigs []Contig, names []string) ([]Contig, error) {
	if len(names) == 0 {
		return contigs, nil
	}
	wanted := set.New(set.ThreadSafe)
	for _, n := range names {
		wanted.Add(n)
	}
	found := set.New(set.ThreadSafe)

	var out []Contig
	for _, c := range contigs {
		if wanted.Has(c.Name) {
			out = append(out, c)
			found.Add(c.Name)
		}
	}

	if missing := set.Difference(wanted, found); !missing.IsEmpty() {
		list := set.StringSlice(missing)
		sort.Strings(list)
		return nil, errors.New(errors.ErrCodeNotFound, "contigs not found: %s", strings.Join(list, ", "))
	}
	return out, nil
}
