package layout

import (
	"encoding/json"

	"github.com/matzehuels/seqgrid/pkg/errors"
)

// LevelDescription is the serialized form of a [Level].
type LevelDescription struct {
	Modulo    int64 `json:"modulo" bson:"modulo"`
	ChunkSize int64 `json:"chunk_size" bson:"chunk_size"`
	Padding   int64 `json:"padding" bson:"padding"`
	Thickness int64 `json:"thickness" bson:"thickness"`
}

// Description is the serialized form of a [Frame], shared with viewers.
type Description struct {
	Origin [2]int             `json:"origin" bson:"origin"`
	Levels []LevelDescription `json:"levels" bson:"levels"`
}

// Description captures every level of f and its origin.
func (f *Frame) Description() Description {
	d := Description{
		Origin: [2]int{f.origin.X, f.origin.Y},
		Levels: make([]LevelDescription, len(f.levels)),
	}
	for i, l := range f.levels {
		d.Levels[i] = LevelDescription(l)
	}
	return d
}

// FromDescription rebuilds a frame from its description. The moduli and
// paddings are re-derived and the recorded chunk sizes must agree with them.
// Thickness is taken from the description, so frames whose paddings were
// adjusted after construction survive the round trip.
func FromDescription(d Description) (*Frame, error) {
	mods := make([]int64, len(d.Levels))
	pads := make([]int64, len(d.Levels))
	for i, l := range d.Levels {
		mods[i] = l.Modulo
		pads[i] = l.Padding
	}
	f, err := NewFrame(mods, pads, Point{X: d.Origin[0], Y: d.Origin[1]})
	if err != nil {
		return nil, err
	}
	for i, l := range d.Levels {
		if f.levels[i].ChunkSize != l.ChunkSize {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"level %d: chunk size %d does not match derived %d", i, l.ChunkSize, f.levels[i].ChunkSize)
		}
		if l.Thickness < 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "level %d: negative thickness", i)
		}
		f.levels[i].Thickness = l.Thickness
	}
	return f, nil
}

// MarshalJSON encodes f as its [Description].
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Description())
}

// UnmarshalJSON decodes a [Description] into f.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	g, err := FromDescription(d)
	if err != nil {
		return err
	}
	*f = *g
	return nil
}
