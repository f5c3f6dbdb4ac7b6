// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/ballot"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/store"
)

type VoterHandler struct {
	store  *store.Store
	guard  *ballot.Guard
	caster *ballot.Caster
	cfg    cliparse.Config
}

func NewVoterHandler(s *store.Store, cfg cliparse.Config) *VoterHandler {
	guard := ballot.NewGuard(s)
	return &VoterHandler{
		store:  s,
		guard:  guard,
		caster: ballot.NewCaster(s, guard, cfg.ReceiptSalt),
		cfg:    cfg,
	}
}

// Register handles POST /voters/register
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.store.Queries().CreateVoter(r.Context(), models.Voter{
		Code:         strings.TrimSpace(req.Code),
		LastName:     strings.TrimSpace(req.LastName),
		FirstName:    strings.TrimSpace(req.FirstName),
		MiddleName:   strings.TrimSpace(req.MiddleName),
		Sex:          req.Sex,
		DepartmentID: req.DepartmentID,
		CourseID:     req.CourseID,
		YearLevel:    req.YearLevel,
	})
	if err != nil {
		writeLedgerError(w, r, "register voter", err)
		return
	}

	slog.Info("voter registered", "voter_id", id)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// Login handles POST /voter/login
// Issues a session bound to the active election for a voter who has not yet
// participated in it.
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	voter, election, err := h.guard.CanEnter(r.Context(), strings.TrimSpace(req.Code))
	if err != nil {
		writeLedgerError(w, r, "log in", err)
		return
	}

	token, expiresAt, err := auth.IssueVoterSession(voter.ID, election.ID, h.cfg.SessionSecret, h.cfg.SessionTTL)
	if err != nil {
		writeLedgerError(w, r, "issue session", err)
		return
	}

	slog.Info("voter logged in", "voter_id", voter.ID, "election_id", election.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		SessionToken: token,
		ExpiresAt:    expiresAt,
		Voter:        voter,
		Election:     election,
	})
}

// GetBallot handles GET /voter/ballot
func (h *VoterHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.VoterClaimsFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "session required")
		return
	}

	// Same checks as a submit, so a dead session fails before the form is shown.
	if err := h.guard.CanSubmit(r.Context(), h.store.Queries(), claims.VoterID, claims.ElectionID); err != nil {
		writeLedgerError(w, r, "load ballot", err)
		return
	}

	resp, err := h.guard.Ballot(r.Context(), claims.VoterID, claims.ElectionID)
	if err != nil {
		writeLedgerError(w, r, "load ballot", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SubmitBallot handles POST /voter/ballot
// The voter and election come from the session, never from the body.
func (h *VoterHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.VoterClaimsFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "session required")
		return
	}

	var req models.SubmitBallotRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	receipt, err := h.caster.Cast(r.Context(), ballot.CastRequest{
		VoterID:    claims.VoterID,
		ElectionID: claims.ElectionID,
		Selections: req.Votes,
		IP:         middleware.GetClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		writeLedgerError(w, r, "submit ballot", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		Receipt: receipt,
		Message: "Ballot submitted successfully",
	})
}
