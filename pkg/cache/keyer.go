package cache

// Keyer derives cache keys.
type Keyer interface {
	// PlanKey keys an allocation plan by the hash of its segment list.
	PlanKey(segmentsHash string, opts PlanKeyOpts) string

	// ArtifactKey keys a rendered image by the hash of its plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// PlanKeyOpts holds every option that changes an allocation plan.
type PlanKeyOpts struct {
	Mode            string  `json:"mode"`
	BaseWidth       int64   `json:"base_width"`
	BorderWidth     int64   `json:"border_width"`
	Modulos         []int64 `json:"modulos,omitempty"`
	Paddings        []int64 `json:"paddings,omitempty"`
	NoTitles        bool    `json:"no_titles"`
	SkipSmallTitles bool    `json:"skip_small_titles"`
	SortBySize      bool    `json:"sort_by_size"`
	SmallTitles     int64   `json:"small_titles,omitempty"` // length below which titles are skipped
	ManySegments    int     `json:"many_segments,omitempty"`
	ColumnWidths    []int64 `json:"column_widths,omitempty"`
	Tracks          int     `json:"tracks,omitempty"`
	XRadices        []int   `json:"x_radices,omitempty"`
	YRadices        []int   `json:"y_radices,omitempty"`
	Gap             int     `json:"gap,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered image.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Palette  string `json:"palette"`
	Titles   bool   `json:"titles"`
	Sequence string `json:"sequence"` // hash of the drawn residues
}

// DefaultKeyer produces "plan:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) PlanKey(segmentsHash string, opts PlanKeyOpts) string {
	return hashKey("plan", segmentsHash, opts)
}

func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
