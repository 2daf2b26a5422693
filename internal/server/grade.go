package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-grader/constants"
	"github.com/joseph-ayodele/paper-grader/internal/common"
)

const maxUploadBytes = 32 << 20

// handleGrade accepts one document as multipart field "file", runs the
// two-stage pipeline on it and returns the result envelope. Pipeline failures
// are part of the envelope protocol, not HTTP errors; only malformed requests
// get 4xx.
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rid := common.RequestIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("parse upload: %v", err)})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !constants.IsAllowedExt(ext) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("unsupported document type: %s", ext)})
		return
	}

	tmpPath, err := spoolUpload(file, ext)
	if err != nil {
		s.logger.Error("server.grade.spool_error", "req_id", rid, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to store upload"})
		return
	}
	defer os.Remove(tmpPath)

	s.logger.Info("server.grade.start", "req_id", rid, "filename", header.Filename, "bytes", header.Size)

	result := s.proc.Grade(r.Context(), tmpPath)

	s.logger.Info("server.grade.done",
		"req_id", rid,
		"success", result.Success,
		"records", len(result.Records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	writeJSON(w, http.StatusOK, result)
}

// handleExport streams an XLSX workbook of graded reviews; paper_id narrows
// the export to one paper.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var paperID *uuid.UUID
	if raw := r.URL.Query().Get("paper_id"); raw != "" {
		v := common.NewValidator()
		v.Field("paper_id", raw, common.UUID)
		if err := v.Error(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		id, _ := uuid.Parse(raw)
		paperID = &id
	}

	b, err := s.exporter.ExportReviewsXLSX(r.Context(), paperID)
	if err != nil {
		s.logger.Error("server.export.failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "export failed"})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="reviews.xlsx"`)
	_, _ = w.Write(b)
}

// spoolUpload writes the uploaded stream to a temp file so the backend client
// can read it by path. The caller removes the file once grading is done.
func spoolUpload(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "paper-*."+constants.NormalizeExt(ext))
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := io.Copy(tmp, src); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
