package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docrank/internal/output"
	"github.com/dgallion1/docrank/internal/parser"
	"github.com/dgallion1/docrank/internal/persona"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// maxPersonaBytes bounds the optional persona_file part.
const maxPersonaBytes = 1 << 20

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	pf, err := s.personaFromForm(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(pf.Persona) == "" || strings.TrimSpace(pf.Job) == "" {
		jsonError(w, "persona and job are required", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	uploads := make([]pipeline.Upload, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		if seen[filename] {
			jsonError(w, fmt.Sprintf("duplicate file: %s", filename), http.StatusBadRequest)
			return
		}
		seen[filename] = true

		data, err := readPart(fh, s.cfg.MaxUploadBytes)
		if err != nil {
			jsonError(w, fmt.Sprintf("%s: %s", filename, err), http.StatusRequestEntityTooLarge)
			return
		}
		uploads = append(uploads, pipeline.Upload{Filename: filename, Data: data})
	}

	job := pipeline.NewJob(pf.Persona, pf.Job, uploads)
	job.SetChallengeInfo(pf.ChallengeInfo)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/analyze/%s", job.ID),
	})
}

// personaFromForm reads an uploaded persona_file when present; the persona
// and job form fields override its values.
func (s *Server) personaFromForm(r *http.Request) (*persona.File, error) {
	pf := &persona.File{}
	if fhs := r.MultipartForm.File["persona_file"]; len(fhs) > 0 {
		data, err := readPart(fhs[0], maxPersonaBytes)
		if err != nil {
			return nil, fmt.Errorf("persona_file: %w", err)
		}
		pf, err = persona.Parse(data, fhs[0].Filename)
		if err != nil {
			return nil, err
		}
	}
	if v := r.FormValue("persona"); v != "" {
		pf.Persona = v
	}
	if v := r.FormValue("job"); v != "" {
		pf.Job = v
	}
	return pf, nil
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleAnalyzeResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	body, err := output.MarshalJSON(job.Result())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", output.FileName(job.Result())))
	w.Write(body)
}

func (s *Server) handleAnalyzeResultXLSX(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	body, err := output.XLSX(job.Result())
	if err != nil {
		s.log.Error("xlsx export failed", "job_id", job.ID, "error", err)
		jsonError(w, "xlsx export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.BaseName(job.Result())+".xlsx"))
	w.Write(body)
}

// completedJob resolves the job in the URL and writes an error response
// unless it has a result.
func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	if job.Result() == nil {
		snap := job.Snapshot()
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return nil, false
	}
	return job, true
}

func readPart(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read error")
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", limit)
	}
	return data, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
