package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/apiscope-hq/apiscope/internal/config"
	"github.com/apiscope-hq/apiscope/internal/db"
	"github.com/apiscope-hq/apiscope/internal/surface"
	"github.com/apiscope-hq/apiscope/pkg/model"
)

// ExtractRequest is the request body for extracting an API surface
type ExtractRequest struct {
	Root    string `json:"root"`
	Package string `json:"package,omitempty"` // Overrides the manifest name
	Save    bool   `json:"save,omitempty"`    // Persist the report when a store is configured
}

// ExtractResponse is the API response for an extraction
type ExtractResponse struct {
	Package  string                `json:"package"`
	Root     string                `json:"root"`
	ReportID *uuid.UUID            `json:"report_id,omitempty"`
	Surface  *model.AnalysisResult `json:"surface"`
}

// ReportResponse is the API response for a stored report
type ReportResponse struct {
	ID        uuid.UUID       `json:"id"`
	Package   string          `json:"package"`
	Root      string          `json:"root"`
	CommitSHA *string         `json:"commit_sha,omitempty"`
	Surface   json.RawMessage `json:"surface,omitempty"`
	CreatedAt string          `json:"created_at"`
}

func reportToResponse(rep *db.Report, includeSurface bool) *ReportResponse {
	if rep == nil {
		return nil
	}
	resp := &ReportResponse{
		ID:        rep.ID,
		Package:   rep.Package,
		Root:      rep.Root,
		CommitSHA: rep.CommitSHA,
		CreatedAt: rep.CreatedAt.UTC().Format(time.RFC3339),
	}
	if includeSurface {
		resp.Surface = rep.Surface
	}
	return resp
}

// extract runs a surface extraction against a package root on the server's
// filesystem and optionally persists the result as a report.
func (s *Server) extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Root == "" {
		respondError(w, http.StatusBadRequest, "root is required")
		return
	}
	if req.Save && s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "report store not available")
		return
	}

	conv, err := config.LoadConventions(req.Root)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid conventions file")
		return
	}
	if req.Package != "" {
		conv.PackageName = req.Package
	}

	result, err := surface.New(s.eng, conv).ExtractAPISurface(r.Context(), req.Root)
	if err != nil {
		log.Error().Err(err).Str("root", req.Root).Msg("extraction failed")
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resp := &ExtractResponse{
		Package: packageName(req.Root, conv),
		Root:    req.Root,
		Surface: result,
	}

	if req.Save {
		raw, err := json.Marshal(result)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to encode surface")
			return
		}
		rep, err := s.store.SaveReport(r.Context(), resp.Package, req.Root, nil, raw)
		if err != nil {
			log.Error().Err(err).Msg("failed to save report")
			respondError(w, http.StatusInternalServerError, "failed to save report")
			return
		}
		resp.ReportID = &rep.ID
	}

	respondJSON(w, http.StatusOK, resp)
}

// listReports lists stored reports, optionally filtered by package name
func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "report store not available")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	reports, err := s.store.ListReports(r.Context(), r.URL.Query().Get("package"), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reports")
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	responses := make([]*ReportResponse, len(reports))
	for i := range reports {
		responses[i] = reportToResponse(&reports[i], false)
	}

	respondJSON(w, http.StatusOK, responses)
}

// getReport gets a stored report by ID, including its surface
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "report store not available")
		return
	}

	reportID, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	rep, err := s.store.GetReport(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "report not found")
			return
		}
		log.Error().Err(err).Msg("failed to get report")
		respondError(w, http.StatusInternalServerError, "failed to get report")
		return
	}

	respondJSON(w, http.StatusOK, reportToResponse(rep, true))
}

// packageName resolves the reported package name the same way extraction does:
// conventions override first, then the manifest name, then the directory name.
func packageName(root string, conv *config.Conventions) string {
	if conv.PackageName != "" {
		return conv.PackageName
	}
	data, err := os.ReadFile(filepath.Join(root, conv.Manifest))
	if err == nil {
		var manifest struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(data, &manifest) == nil && manifest.Name != "" {
			return manifest.Name
		}
	}
	return filepath.Base(root)
}
