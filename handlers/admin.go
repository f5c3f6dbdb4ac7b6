// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/campus-vote/importer"
	"github.com/danielhkuo/campus-vote/ledger"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/store"
)

// maxImportBytes caps roster uploads.
const maxImportBytes = 32 << 20

// AdminHandler serves the endpoints behind RequireAdminKey.
type AdminHandler struct {
	store    *store.Store
	mutator  *ledger.Mutator
	importer *importer.Importer
}

func NewAdminHandler(s *store.Store) *AdminHandler {
	return &AdminHandler{
		store:    s,
		mutator:  ledger.NewMutator(s),
		importer: importer.New(s),
	}
}

// CreateDepartment handles POST /admin/departments
func (h *AdminHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDepartmentRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.store.Queries().CreateDepartment(r.Context(), strings.TrimSpace(req.Code), strings.TrimSpace(req.Name))
	if err != nil {
		writeLedgerError(w, r, "create department", err)
		return
	}

	slog.Info("department created", "department_id", id, "code", req.Code)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// CreateCourse handles POST /admin/courses
func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.store.Queries().CreateCourse(r.Context(), req.DepartmentID, strings.TrimSpace(req.Code), strings.TrimSpace(req.Name))
	if err != nil {
		writeLedgerError(w, r, "create course", err)
		return
	}

	slog.Info("course created", "course_id", id, "code", req.Code)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// CreateElection handles POST /admin/elections
// With is_active set, the new election replaces the active one.
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	var id int64
	err := h.store.WithTx(r.Context(), func(q *store.Queries) error {
		var err error
		id, err = q.CreateElection(r.Context(), strings.TrimSpace(req.Name), req.StartAt, req.EndAt)
		if err != nil {
			return err
		}
		if req.IsActive {
			return q.ActivateElection(r.Context(), id)
		}
		return nil
	})
	if err != nil {
		writeLedgerError(w, r, "create election", err)
		return
	}

	slog.Info("election created", "election_id", id, "active", req.IsActive)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// ActivateElection handles POST /admin/elections/{id}/activate
func (h *AdminHandler) ActivateElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id must be a positive integer")
		return
	}

	err := h.store.WithTx(r.Context(), func(q *store.Queries) error {
		return q.ActivateElection(r.Context(), id)
	})
	if err != nil {
		writeLedgerError(w, r, "activate election", err)
		return
	}

	slog.Info("election activated", "election_id", id)
	h.writeElection(w, r, id)
}

// DeactivateElection handles POST /admin/elections/{id}/deactivate
func (h *AdminHandler) DeactivateElection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id must be a positive integer")
		return
	}

	if err := h.store.Queries().DeactivateElection(r.Context(), id); err != nil {
		writeLedgerError(w, r, "deactivate election", err)
		return
	}

	slog.Info("election deactivated", "election_id", id)
	h.writeElection(w, r, id)
}

func (h *AdminHandler) writeElection(w http.ResponseWriter, r *http.Request, id int64) {
	election, err := h.store.Queries().ElectionByID(r.Context(), id)
	if err != nil {
		writeLedgerError(w, r, "load election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, election)
}

// CreatePosition handles POST /admin/positions
func (h *AdminHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePositionRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.store.Queries().CreatePosition(r.Context(), models.Position{
		ElectionID: req.ElectionID,
		Name:       strings.TrimSpace(req.Name),
		MaxWinners: req.MaxWinners,
		Level:      req.Level,
	})
	if err != nil {
		writeLedgerError(w, r, "create position", err)
		return
	}

	slog.Info("position created", "position_id", id, "election_id", req.ElectionID, "level", req.Level)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// CreateCandidate handles POST /admin/candidates
func (h *AdminHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.store.Queries().CreateCandidate(r.Context(), req)
	if err != nil {
		writeLedgerError(w, r, "create candidate", err)
		return
	}

	slog.Info("candidate created", "candidate_id", id, "position_id", req.PositionID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// AddVotes handles POST /admin/ledger/add
func (h *AdminHandler) AddVotes(w http.ResponseWriter, r *http.Request) {
	var req models.AddVotesRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.mutator.AddVotes(r.Context(), req.CandidateIDs, req.Count, req.Source)
	if err != nil {
		writeLedgerError(w, r, "add votes", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// RemoveVotes handles POST /admin/ledger/remove
func (h *AdminHandler) RemoveVotes(w http.ResponseWriter, r *http.Request) {
	var req models.RemoveVotesRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.mutator.RemoveVotes(r.Context(), req.CandidateIDs, req.Count)
	if err != nil {
		writeLedgerError(w, r, "remove votes", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// ReassignVotes handles POST /admin/ledger/reassign
func (h *AdminHandler) ReassignVotes(w http.ResponseWriter, r *http.Request) {
	var req models.ReassignVotesRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.mutator.ReassignVotes(r.Context(), req.SourceCandidateID, req.TargetCandidateID, req.Count)
	if err != nil {
		writeLedgerError(w, r, "reassign votes", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// ImportJSON handles POST /admin/import/json?election_id=
func (h *AdminHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	electionID, err := queryInt64(r, "election_id", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := importBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	summary, err := h.importer.ImportJSON(r.Context(), body, electionID)
	if err != nil {
		writeLedgerError(w, r, "import roster", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// ImportCSV handles POST /admin/import/csv
func (h *AdminHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := importBody(w, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	summary, err := h.importer.ImportCSV(r.Context(), body)
	if err != nil {
		writeLedgerError(w, r, "import roster", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// importBody returns the uploaded roster: the "file" part of a multipart
// form, or the raw request body otherwise.
func importBody(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	return file, nil
}
