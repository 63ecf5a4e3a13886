package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seqgrid/pkg/buildinfo"
	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
	"github.com/matzehuels/seqgrid/pkg/storage"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

// CreateRequest is the body of POST /layouts.
type CreateRequest struct {
	Segments []SegmentInput   `json:"segments"`
	Options  pipeline.Options `json:"options"`
}

// SegmentInput names one segment to lay out.
type SegmentInput struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
}

// LevelRow is one line of the level table.
type LevelRow struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Axis      string `json:"axis"`
	Modulo    int64  `json:"modulo"`
	ChunkSize int64  `json:"chunk_size"`
	Padding   int64  `json:"padding"`
	Thickness int64  `json:"thickness"`
}

// Position is the answer to a position query. Segment is empty when the
// index falls in padding.
type Position struct {
	Index   int64  `json:"index"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Segment string `json:"segment,omitempty"`
	Offset  int64  `json:"offset"` // position within the segment
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps an error code to an HTTP status.
func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeOutOfBounds:
		return http.StatusRequestedRangeNotSatisfiable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusOf(code)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req CreateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBodyOf(errors.ErrCodeInvalidInput,
				"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes"))
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if req.Options.Mode != "" && req.Options.Mode != pipeline.ModeTile {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported,
			"mode %q needs sequence data; only tile layouts are planned over HTTP", req.Options.Mode))
		return
	}

	segments := make([]tile.Segment, len(req.Segments))
	for i, in := range req.Segments {
		if err := errors.ValidateSegmentName(in.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
		segments[i] = tile.Segment{Name: in.Name, Length: in.Length}
	}

	opts := req.Options
	opts.Logger = s.logger
	plan, err := s.runner.Plan(r.Context(), segments, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec := storage.NewRecord(pipeline.ModeTile, plan)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func errorBodyOf(code errors.Code, msg string) errorBody {
	var b errorBody
	b.Error.Code = code
	b.Error.Message = msg
	return b
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit %q must be a positive integer", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []*storage.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// record loads the layout named by the {id} URL parameter.
// layoutID returns the {id} path parameter once it passes ValidateID.
func layoutID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Server) record(r *http.Request) (*storage.Record, error) {
	id, err := layoutID(r)
	if err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := layoutID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := rec.Frame()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LevelTable(f))
}

// LevelTable describes every level of f.
func LevelTable(f *layout.Frame) []LevelRow {
	rows := make([]LevelRow, f.Len())
	for i, l := range f.Levels() {
		rows[i] = LevelRow{
			Index:     i,
			Name:      layout.LevelName(i),
			Axis:      layout.AxisOf(i).String(),
			Modulo:    l.Modulo,
			ChunkSize: l.ChunkSize,
			Padding:   l.Padding,
			Thickness: l.Thickness,
		}
	}
	return rows
}

func (s *Server) handleSpacing(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	plan := tile.Plan{Segments: rec.Segments, ImageLength: rec.ImageLength}
	writeJSON(w, http.StatusOK, plan.Spacing())
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("index")
	index, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "index %q must be an integer", raw))
		return
	}
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := rec.Frame()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if index >= rec.ImageLength {
		s.writeError(w, r, errors.OutOfBounds(index, rec.ImageLength))
		return
	}
	p, err := f.PositionOnScreen(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pos := Position{Index: index, X: p.X, Y: p.Y}
	pos.Segment, pos.Offset = segmentAt(rec.Segments, index)
	writeJSON(w, http.StatusOK, pos)
}

// segmentAt finds the segment whose body holds index.
func segmentAt(segments []tile.Segment, index int64) (string, int64) {
	var cursor int64
	for _, s := range segments {
		cursor += s.ResetPadding + s.TitlePadding
		if index < cursor {
			return "", 0
		}
		if index < cursor+s.Length {
			return s.Name, index - cursor
		}
		cursor += s.Length + s.TailPadding
	}
	return "", 0
}
