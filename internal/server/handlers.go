package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Enkerli/exquisite-fingerings/internal/fingering"
	"github.com/Enkerli/exquisite-fingerings/internal/grid"
	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
	"github.com/Enkerli/exquisite-fingerings/internal/theory"
)

const maxUploadSize = 4 * 1024 * 1024 // 4MB of handprint JSON is plenty

// queryRequest is the shared body of /api/suggest and /api/match.
type queryRequest struct {
	LibraryID string `json:"libraryId,omitempty"`
	// Either a chord symbol ("Cmaj7") or a comma-separated pitch-class
	// list ("0,4,7"). Chord wins when both are set.
	Chord        string `json:"chord,omitempty"`
	PitchClasses string `json:"pitchClasses,omitempty"`

	Device   string `json:"device,omitempty"`   // "hex" (default) or "square"
	Layout   string `json:"layout,omitempty"`   // "intervals" (default) or "chromatic"
	Hand     string `json:"hand,omitempty"`     // "left" or "right" (default)
	BaseMIDI int    `json:"baseMidi,omitempty"` // default 48

	MaxSuggestions    int `json:"maxSuggestions,omitempty"`
	MaxRow            int `json:"maxRow,omitempty"`
	PadsPerPitchClass int `json:"padsPerPitchClass,omitempty"`
}

type queryResponse struct {
	Target     []int                 `json:"target"`
	Candidates []fingering.Candidate `json:"candidates"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUploadLibrary accepts a handprint library as JSON and stores it
// under a fresh ID.
func (s *Server) handleUploadLibrary(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "library too large or unreadable")
		return
	}

	lib, err := handprint.Parse(data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := s.libraries.Put(lib)
	s.logger.Info("library uploaded",
		slog.String("id", entry.ID),
		slog.Int("handprints", len(lib.Handprints)))

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"id":         entry.ID,
		"handprints": len(lib.Handprints),
	})
}

// handleDeleteLibrary drops an uploaded library.
func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.libraries.Delete(id) {
		s.writeError(w, http.StatusNotFound, "no such library")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePatterns returns the extracted pattern statistics for a library.
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	entry := s.libraries.Get(chi.URLParam(r, "id"))
	if entry == nil {
		s.writeError(w, http.StatusNotFound, "no such library")
		return
	}

	hand := handprint.Hand(r.URL.Query().Get("hand"))
	patterns := handprint.Extract(entry.Library, hand)
	// nil means no handprints for this hand: a valid, distinct state.
	s.writeJSON(w, http.StatusOK, map[string]any{"patterns": patterns})
}

// handleSuggest synthesizes and ranks approximate fingerings.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	req, dev, target, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	var lib *handprint.Library
	if req.LibraryID != "" {
		entry := s.libraries.Get(req.LibraryID)
		if entry == nil {
			s.writeError(w, http.StatusNotFound, "no such library")
			return
		}
		lib = entry.Library
	}

	cfg := fingering.DefaultConfig()
	if req.BaseMIDI != 0 {
		cfg.BaseMIDI = req.BaseMIDI
	}
	if req.MaxSuggestions > 0 {
		cfg.MaxSuggestions = req.MaxSuggestions
	}
	if req.MaxRow > 0 {
		cfg.MaxRow = req.MaxRow
	}
	if req.PadsPerPitchClass > 0 {
		cfg.PadsPerPitchClass = req.PadsPerPitchClass
	}

	synth := fingering.NewSynthesizer(dev, cfg)
	candidates := synth.Suggest(target, lib, hand(req.Hand))

	s.writeJSON(w, http.StatusOK, queryResponse{
		Target:     target.Values(),
		Candidates: candidates,
	})
}

// handleMatch finds exact matches in an uploaded library.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	req, dev, target, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	if req.LibraryID == "" {
		s.writeError(w, http.StatusBadRequest, "matching requires a libraryId")
		return
	}
	entry := s.libraries.Get(req.LibraryID)
	if entry == nil {
		s.writeError(w, http.StatusNotFound, "no such library")
		return
	}
	// An empty library and a library with no matching subset warrant
	// different remediation; tell them apart for the client.
	if err := entry.Library.RequireNonEmpty(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "library has no handprints; capture some first")
		return
	}

	matcher := fingering.NewMatcher(dev)
	candidates := matcher.Match(entry.Library, target)

	s.writeJSON(w, http.StatusOK, queryResponse{
		Target:     target.Values(),
		Candidates: candidates,
	})
}

// decodeQuery parses the shared request body and resolves the device and
// target pitch-class set. On failure it writes the error response and
// returns ok=false.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, grid.Device, theory.Set, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, nil, nil, false
	}

	deviceName := req.Device
	if deviceName == "" {
		deviceName = "hex"
	}
	layout := grid.Layout(req.Layout)
	if layout == "" {
		layout = grid.LayoutIntervals
	}
	dev, err := grid.New(deviceName, layout)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return req, nil, nil, false
	}

	var target theory.Set
	switch {
	case req.Chord != "":
		sym := theory.ParseChord(req.Chord)
		if sym == nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unrecognized chord %q", req.Chord))
			return req, nil, nil, false
		}
		target, err = sym.PitchClasses()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return req, nil, nil, false
		}
	case req.PitchClasses != "":
		target = theory.ParsePitchClassList(req.PitchClasses)
	}
	if target.Len() == 0 {
		s.writeError(w, http.StatusBadRequest, "no target: provide a chord or pitchClasses")
		return req, nil, nil, false
	}

	return req, dev, target, true
}

func hand(h string) handprint.Hand {
	if h == string(handprint.HandLeft) {
		return handprint.HandLeft
	}
	return handprint.HandRight
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
