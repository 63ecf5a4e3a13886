package render

import (
	"image/color"
	"sort"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// Unknown is the colour of characters missing from a palette.
var Unknown = color.RGBA{255, 0, 0, 255}

// Palette maps residue bytes to colours.
type Palette struct {
	name   string
	colors [256]color.RGBA
}

// Name returns the name the palette was looked up by.
func (p *Palette) Name() string { return p.name }

// Color returns the colour for b.
func (p *Palette) Color(b byte) color.RGBA { return p.colors[b] }

func rgb(hex uint32) color.RGBA {
	return color.RGBA{uint8(hex >> 16), uint8(hex >> 8), uint8(hex), 255}
}

// Rasmol amino-acid colours. Nucleotide letters are set afterwards and
// win where the alphabets overlap.
var rasmol = map[byte]uint32{
	'D': 0xEA3535, 'E': 0xEA3535, 'F': 0x4B4BB5, 'H': 0x9595D9,
	'I': 0x2F932F, 'K': 0x3C76FF, 'L': 0x2F932F, 'M': 0xECEC41,
	'P': 0xE25826, 'Q': 0x3BE4E4, 'R': 0x3C76FF, 'S': 0xFBAC34,
	'V': 0x2F932F, 'W': 0xBF72BF, 'X': 0xFF6100, 'Y': 0x4B4BB5,
}

// Markers used by alignments and translocations.
var markers = map[byte]uint32{
	'N': 0x7A7A7A, // unknown base
	'-': 0xF7F7F7, // gap
	'.': 0xE5F3FF,
	'_': 0xFFEEED,
	'B': 0xFFF0EF,
	'Z': 0xF9EDFF,
	'U': 0xFFF3E5,
}

var nucleotides = map[string]map[byte]uint32{
	"classic": {'A': 0x00C566, 'C': 0xFF9F00, 'G': 0xFF4100, 'T': 0x0B56BE},
	"natural": {'A': 0x3FB93F, 'C': 0xE2AE5B, 'G': 0xD4403C, 'T': 0x2D6C85},
}

// PaletteNames lists the palettes NewPalette accepts.
func PaletteNames() []string {
	names := make([]string, 0, len(nucleotides))
	for n := range nucleotides {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewPalette returns a named palette. Lower-case (soft-masked) letters
// share the colour of their upper-case form.
func NewPalette(name string) (*Palette, error) {
	nuc, ok := nucleotides[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown palette %q (have %v)", name, PaletteNames())
	}
	p := &Palette{name: name}
	for i := range p.colors {
		p.colors[i] = Unknown
	}
	for _, m := range []map[byte]uint32{rasmol, markers, nuc} {
		for b, c := range m {
			p.colors[b] = rgb(c)
			if b >= 'A' && b <= 'Z' {
				p.colors[b+'a'-'A'] = rgb(c)
			}
		}
	}
	return p, nil
}

// DefaultPalette is the high-contrast nucleotide palette.
func DefaultPalette() *Palette {
	p, _ := NewPalette("classic")
	return p
}
