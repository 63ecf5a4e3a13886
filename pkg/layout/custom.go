package layout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

var listPattern = regexp.MustCompile(`\[([^\[\]]*)\]`)

// ParseCustomLayout parses the "([moduli], [paddings])" syntax, for example
//
//	([10,100,100,10,3,999], [0,0,0,3,18,108])
//
// An empty string yields nil slices and no error, meaning "use the default
// frame". Both lists must have the same length.
func ParseCustomLayout(s string) (modulos, paddings []int64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil
	}
	lists := listPattern.FindAllStringSubmatch(s, -1)
	if len(lists) != 2 {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig,
			"custom layout %q: want two bracketed lists, got %d", s, len(lists))
	}
	if modulos, err = parseIntList(lists[0][1]); err != nil {
		return nil, nil, err
	}
	if paddings, err = parseIntList(lists[1][1]); err != nil {
		return nil, nil, err
	}
	if len(modulos) != len(paddings) {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig,
			"custom layout has %d moduli but %d paddings", len(modulos), len(paddings))
	}
	return modulos, paddings, nil
}

// FormatCustomLayout is the inverse of ParseCustomLayout.
func FormatCustomLayout(modulos, paddings []int64) string {
	return "(" + formatIntList(modulos) + ", " + formatIntList(paddings) + ")"
}

func parseIntList(s string) ([]int64, error) {
	fields := strings.Split(s, ",")
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "custom layout value %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func formatIntList(vs []int64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
