package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/errs"
	"github.com/brandlens/brandlens/internal/model"
	"github.com/brandlens/brandlens/internal/report"
)

var allowedExtensions = map[string]bool{
	".csv":  true,
	".json": true,
	".xlsx": true,
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errs.Validationf("no file provided"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, errs.Validationf("unsupported file type %q, expected .csv, .json or .xlsx", ext))
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		writeError(w, err)
		return
	}
	savedPath := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	dst, err := os.Create(savedPath)
	if err != nil {
		writeError(w, err)
		return
	}
	size, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		os.Remove(savedPath)
		writeError(w, errs.Validationf("failed to save upload: %v", err))
		return
	}

	t, err := s.store.Create(r.Context(), header.Filename)
	if err != nil {
		os.Remove(savedPath)
		writeError(w, err)
		return
	}

	zap.L().Info("upload accepted",
		zap.String("task_id", t.ID),
		zap.String("filename", header.Filename),
		zap.Int64("size", size))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		defer os.Remove(savedPath)
		if err := s.runner.Execute(ctx, t.ID, savedPath); err != nil {
			zap.L().Error("analysis run failed", zap.String("task_id", t.ID), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusOK, map[string]any{
		"task_id":  t.ID,
		"filename": header.Filename,
		"size":     size,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		writeError(w, errs.Validationf("task_id is required"))
		return
	}

	t, err := s.store.Get(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{
		"task_id":  t.ID,
		"status":   string(t.Status),
		"progress": t.Progress,
	}
	if t.Results != nil {
		resp["results"] = t.Results
	} else {
		resp["results"] = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		writeError(w, errs.Validationf("task_id is required"))
		return
	}

	if _, err := s.store.Get(r.Context(), taskID); err != nil {
		writeError(w, err)
		return
	}
	lines, err := s.store.Logs(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"task_id": taskID,
		"logs":    lines,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		writeError(w, errs.Validationf("task_id is required"))
		return
	}

	var fileName string
	switch r.URL.Query().Get("file_type") {
	case "brand_related":
		fileName = report.BrandFileName
	case "non_brand":
		fileName = report.NonBrandFileName
	default:
		writeError(w, errs.Validationf("file_type must be brand_related or non_brand"))
		return
	}

	t, err := s.store.Get(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	if t.Status != model.TaskStatusCompleted {
		writeError(w, errs.Statef("task %s has not completed yet", taskID))
		return
	}

	path := s.runner.ResultPath(taskID, fileName)
	if _, err := os.Stat(path); err != nil {
		writeError(w, errs.NotFoundf("result file %s for task %s", fileName, taskID))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "creator analysis service is running",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
