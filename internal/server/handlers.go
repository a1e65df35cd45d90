package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inspiredoc/inspiredoc/internal/normalize"
	"github.com/inspiredoc/inspiredoc/internal/pipeline"
	"github.com/inspiredoc/inspiredoc/internal/store"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

// maxUploadBytes caps a whole multipart upload.
const maxUploadBytes = 64 << 20

// Multipart field names for the three document roles.
const (
	fieldOldSource = "old_source"
	fieldExemplar  = "exemplar"
	fieldNewSource = "new_source"
)

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerate accepts a multipart form: file fields old_source,
// exemplar, and new_source (each repeatable), plus instruction and
// generation parameter fields. It runs the full pipeline and returns
// the result as JSON.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error(), "")
		return
	}

	opts := pipeline.RunOptions{
		Instruction: r.FormValue("instruction"),
		Params:      parseParams(r),
		Verbose:     s.verbose,
	}

	if r.FormValue("page_breaks") == "separator" {
		opts.PageBreaks = normalize.PageBreakSeparator
	}

	for field, role := range map[string]types.Role{
		fieldOldSource: types.RoleOldSource,
		fieldExemplar:  types.RoleExemplar,
		fieldNewSource: types.RoleNewSource,
	} {
		inputs, err := readFileField(r, field, role)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		opts.Inputs = append(opts.Inputs, inputs...)
	}

	for _, format := range r.Form["artifact"] {
		switch types.ArtifactFormat(format) {
		case types.ArtifactHTMLPreview, types.ArtifactPDF, types.ArtifactDOCX:
			opts.ArtifactFormats = append(opts.ArtifactFormats, types.ArtifactFormat(format))
		default:
			s.respondError(w, http.StatusBadRequest, "unknown artifact format: "+format, "")
			return
		}
	}

	result, err := s.service.Run(r.Context(), opts)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			s.respondError(w, stageStatus(stageErr), err.Error(), stageErr.Stage)
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleArtifact serves a previously rendered artifact by Markdown hash
// and format.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		s.respondError(w, http.StatusNotFound, "artifact persistence is not configured", "")
		return
	}

	hash := chi.URLParam(r, "hash")
	format := chi.URLParam(r, "format")

	body, err := s.artifacts.Get(r.Context(), store.ArtifactKey(hash, format))
	if err != nil {
		var nf *store.NotFoundError
		if errors.As(err, &nf) {
			s.respondError(w, http.StatusNotFound, err.Error(), "")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("writing artifact response: %v", err)
	}
}

// readFileField collects every uploaded file under one form field.
func readFileField(r *http.Request, field string, role types.Role) ([]pipeline.InputFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var inputs []pipeline.InputFile
	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			return nil, errors.New("cannot open upload " + header.Filename + ": " + err.Error())
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errors.New("cannot read upload " + header.Filename + ": " + err.Error())
		}
		inputs = append(inputs, pipeline.InputFile{
			Role:     role,
			Filename: header.Filename,
			Bytes:    raw,
		})
	}
	return inputs, nil
}

// parseParams reads optional generation parameters from form values,
// falling back to the defaults for anything absent or unparsable.
func parseParams(r *http.Request) types.GenerationParams {
	params := types.DefaultGenerationParams()
	if v := r.FormValue("temperature"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			params.Temperature = f
		}
	}
	if v := r.FormValue("max_tokens"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.MaxTokens = n
		}
	}
	params.Style = r.FormValue("style")
	return params
}

// stageStatus maps a pipeline stage to the HTTP status of its failure.
func stageStatus(err *pipeline.StageError) int {
	switch err.Stage {
	case pipeline.StageValidate, pipeline.StageAssemble:
		return http.StatusBadRequest
	case pipeline.StageGenerate:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func contentTypeFor(format string) string {
	switch types.ArtifactFormat(format) {
	case types.ArtifactHTMLPreview:
		return "text/html; charset=utf-8"
	case types.ArtifactPDF:
		return "application/pdf"
	case types.ArtifactDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, stage string) {
	s.respondJSON(w, status, errorResponse{Error: message, Stage: stage})
}
