// Package fonts supplies the typeface used for segment titles.
//
// Titles use Go Regular, compiled into the binary by golang.org/x/image,
// so rendering never depends on fonts installed on the host.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Title sizes in points, matched to the padding a title occupies.
const (
	SizeLine    = 9   // a few lines of padding
	SizeColumn  = 38  // a whole column, drawn vertically
	SizeRow     = 380 // a megarow
	SizeMegarow = 760 // a megarow label for a short name
)

var (
	parseOnce sync.Once
	regular   *truetype.Font
	parseErr  error
)

// Regular returns the parsed Go Regular font. It is parsed once and safe
// to share.
func Regular() (*truetype.Font, error) {
	parseOnce.Do(func() {
		regular, parseErr = truetype.Parse(goregular.TTF)
	})
	return regular, parseErr
}

// Face returns a new Go Regular face at size points and 72 DPI, so one
// point is one pixel. Faces keep a glyph cache and must not be shared
// between goroutines.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}
