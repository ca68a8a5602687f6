package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KaramelBytes/salesloom-cli/internal/analysis"
	"github.com/KaramelBytes/salesloom-cli/internal/canonical"
	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"github.com/KaramelBytes/salesloom-cli/internal/schema"
	"github.com/KaramelBytes/salesloom-cli/internal/session"
)

// multipart parts above this size spill to temp files
const formMemory = 32 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Rows    int    `json:"rows,omitempty"`
	MinRows int    `json:"min_rows,omitempty"`
}

type mappingRequest struct {
	Mapping map[string]string `json:"mapping"`
}

type mappingResponse struct {
	Mapping map[string]string        `json:"mapping"`
	Errors  []schema.ValidationError `json:"errors"`
	Valid   bool                     `json:"valid"`
}

type processResponse struct {
	Rows             int            `json:"rows"`
	DroppedRows      int            `json:"dropped_rows"`
	Columns          []string       `json:"columns"`
	CoercionFailures map[string]int `json:"coercion_failures"`
}

type validationResponse struct {
	Errors []schema.ValidationError `json:"errors"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) rules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schema.Catalog())
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opt.MaxUploadBytes)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.opt.MaxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !dataset.Supported(name) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", name))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	opt := s.opt.Loader
	if sheet := strings.TrimSpace(r.FormValue("sheet")); sheet != "" {
		if idx, err := strconv.Atoi(sheet); err == nil && idx > 0 {
			opt.SheetIndex, opt.SheetName = idx, ""
		} else {
			opt.SheetName = sheet
		}
	}
	t, err := dataset.Decode(name, data, opt)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.store.Create()
	if err := sess.Load(name, t); err != nil {
		s.store.Delete(sess.ID)
		var ide *analysis.InsufficientDataError
		if errors.As(err, &ide) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   fmt.Sprintf("Dataset must have at least %d rows.", ide.MinRows),
				Rows:    ide.Rows,
				MinRows: ide.MinRows,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.Summary())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Summary())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putMapping(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	m, err := schema.MappingFromStrings(req.Mapping)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	errs, err := sess.SetMapping(m)
	if err != nil {
		var mce *canonical.MissingColumnError
		switch {
		case errors.As(err, &mce):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, session.ErrNoDataset):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, mappingResponse{
		Mapping: m.Strings(),
		Errors:  errs,
		Valid:   len(errs) == 0,
	})
}

func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ds, dropped, errs, err := sess.Process()
	switch {
	case errors.Is(err, session.ErrNoDataset):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.log.Error("process failed", zap.String("session", sess.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	case len(errs) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
		return
	}
	writeJSON(w, http.StatusOK, processResponse{
		Rows:             ds.Len(),
		DroppedRows:      dropped,
		Columns:          ds.ColumnNames(),
		CoercionFailures: ds.FailureCounts(),
	})
}

func (s *Server) downloadCanonical(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ds, _, err := sess.Result()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		writeJSON(w, http.StatusOK, ds.Records())
		return
	}
	body, err := ds.CSV()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := canonicalName(sess.Summary().Filename)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func canonicalName(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "dataset"
	}
	return base + ".canonical.csv"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
