package server

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodecanvas/pkg/diagram"
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
	"github.com/matzehuels/nodecanvas/pkg/topology"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type queryResponse struct {
	Count    int               `json:"count"`
	Elements []spatial.Element `json:"elements"`
}

type topologyResponse struct {
	Nodes       int              `json:"nodes"`
	Connections int              `json:"connections"`
	Cycles      []topology.Cycle `json:"cycles"`
	Orphans     []string         `json:"orphans"`
	Components  [][]string       `json:"components"`
	Sources     []string         `json:"sources"`
	Sinks       []string         `json:"sinks"`
	Bounds      geom.WorldRect   `json:"bounds"`
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type mutationResponse struct {
	Updated []string `json:"updated,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCells(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	cells := s.index.ActiveCellsInfo()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, cells)
}

func (s *Server) handleElement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	e, ok := s.index.Get(id)
	s.mu.RUnlock()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "element %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleQueryRect(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	x, y := p.float("x", 0), p.float("y", 0)
	wd, ht := p.float("w", 0), p.float("h", 0)
	if p.err != nil {
		writeError(w, p.err)
		return
	}
	s.mu.RLock()
	els := s.index.QueryRect(geom.RectFromLTWH[geom.World](x, y, wd, ht))
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, queryResponse{Count: len(els), Elements: els})
}

func (s *Server) handleQueryPoint(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	x, y := p.float("x", 0), p.float("y", 0)
	tol := p.float("tol", 0)
	if p.err != nil {
		writeError(w, p.err)
		return
	}
	s.mu.RLock()
	els := s.index.QueryPoint(geom.Pt[geom.World](x, y), tol)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, queryResponse{Count: len(els), Elements: els})
}

func (s *Server) handleQueryNearest(w http.ResponseWriter, r *http.Request) {
	p := params{r: r}
	x, y := p.float("x", 0), p.float("y", 0)
	maxDist := p.float("max", s.index.GridSize())
	if p.err != nil {
		writeError(w, p.err)
		return
	}
	s.mu.RLock()
	e, ok := s.index.QueryNearest(geom.Pt[geom.World](x, y), maxDist)
	s.mu.RUnlock()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no element within %v of (%v, %v)", maxDist, x, y))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleTopology(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, topologyResponse{
		Nodes:       s.graph.NodeCount(),
		Connections: s.graph.ConnectionCount(),
		Cycles:      topology.DetectCycles(s.graph),
		Orphans:     topology.OrphanNodes(s.graph),
		Components:  topology.Components(s.graph),
		Sources:     topology.Sources(s.graph),
		Sinks:       topology.Sinks(s.graph),
		Bounds:      topology.Bounds(s.graph),
	})
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode move request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delta := geom.Off[geom.World](req.DX, req.DY)
	if err := s.graph.MoveNode(id, delta); err != nil {
		writeError(w, classify(err))
		return
	}
	els := s.graph.NodeElements(id)
	if err := diagram.Sync(s.index, els); err != nil {
		// Put the node back so graph and index agree again.
		_ = s.graph.MoveNode(id, delta.Neg())
		_ = diagram.Sync(s.index, s.graph.NodeElements(id))
		writeError(w, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "move node %s", id))
		return
	}
	s.updateGauges()

	resp := mutationResponse{Updated: make([]string, len(els))}
	for i, e := range els {
		resp.Updated[i] = e.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	removed, ok := s.graph.RemoveNode(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "node %q not found", id))
		return
	}
	diagram.Unsync(s.index, removed)
	s.updateGauges()
	writeJSON(w, http.StatusOK, mutationResponse{Removed: removed})
}

// classify maps diagram sentinel errors onto error codes.
func classify(err error) error {
	switch {
	case stderrors.Is(err, diagram.ErrUnknownNode), stderrors.Is(err, diagram.ErrUnknownPort):
		return errors.Wrap(errors.ErrCodeNotFound, err, "lookup failed")
	case stderrors.Is(err, diagram.ErrInvalidGeometry):
		return errors.Wrap(errors.ErrCodeInvalidGeometry, err, "rejected geometry")
	case stderrors.Is(err, diagram.ErrInvalidID), stderrors.Is(err, diagram.ErrDuplicateID):
		return errors.Wrap(errors.ErrCodeInvalidID, err, "rejected id")
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "unexpected error")
	}
}

// params collects query parameter parse errors so handlers check once.
type params struct {
	r   *http.Request
	err error
}

func (p *params) float(name string, def float64) float64 {
	raw := p.r.URL.Query().Get(name)
	if raw == "" || p.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = errors.New(errors.ErrCodeInvalidInput, "query parameter %s=%q is not a finite number", name, raw)
		return def
	}
	return v
}

func statusFor(code errors.Code) int {
	switch code.Class() {
	case errors.ClassNotFound:
		return http.StatusNotFound
	case errors.ClassInput:
		return http.StatusBadRequest
	case errors.ClassUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
