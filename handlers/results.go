// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/scope"
	"github.com/danielhkuo/campus-vote/store"
	"github.com/danielhkuo/campus-vote/tally"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
	// Keeps (page-1)*per_page well inside an int32 OFFSET.
	maxPage = 1_000_000
)

type ResultsHandler struct {
	store  *store.Store
	engine *tally.Engine
}

func NewResultsHandler(s *store.Store) *ResultsHandler {
	return &ResultsHandler{store: s, engine: tally.NewEngine(s)}
}

// GetResults handles GET /results?election_id=&level=&department_id=
// Without election_id the active election is used.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID, err := queryInt64(r, "election_id", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	departmentID, err := queryInt64(r, "department_id", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var level scope.Level
	if raw := r.URL.Query().Get("level"); raw != "" {
		level, err = scope.Parse(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	results, err := h.engine.Results(r.Context(), tally.Query{
		ElectionID:   electionID,
		Level:        level,
		DepartmentID: departmentID,
	})
	if err != nil {
		writeLedgerError(w, r, "compute results", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetTotals handles GET /results/totals?election_id=
func (h *ResultsHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	electionID, err := queryInt64(r, "election_id", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	totals, err := h.engine.Totals(r.Context(), electionID)
	if err != nil {
		writeLedgerError(w, r, "compute totals", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, totals)
}

// GetDepartmentVoters handles GET /departments/{id}/voters?page=&per_page=&search=&election_id=
// Participation is reported against election_id, or the active election.
// With neither, every voter is listed as not participated.
func (h *ResultsHandler) GetDepartmentVoters(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "department id must be a positive integer")
		return
	}

	page, err := queryInt64(r, "page", 1)
	if err != nil || page < 1 || page > maxPage {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("page must be between 1 and %d", maxPage))
		return
	}
	perPage, err := queryInt64(r, "per_page", defaultPerPage)
	if err != nil || perPage < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "per_page must be a positive integer")
		return
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	electionID, err := queryInt64(r, "election_id", 0)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	q := h.store.Queries()
	if electionID == 0 {
		active, err := q.ActiveElection(r.Context())
		switch {
		case err == nil:
			electionID = active.ID
		case !errors.Is(err, models.ErrNoActiveElection):
			writeLedgerError(w, r, "load roster", err)
			return
		}
	}

	entries, total, err := q.DepartmentRoster(r.Context(), store.RosterQuery{
		DepartmentID: departmentID,
		ElectionID:   electionID,
		Search:       r.URL.Query().Get("search"),
		Page:         int(page),
		PerPage:      int(perPage),
	})
	if err != nil {
		writeLedgerError(w, r, "load roster", err)
		return
	}

	now := time.Now()
	for i := range entries {
		if at := entries[i].ParticipatedAt; at != nil {
			entries[i].ParticipatedAgo = humanize.RelTime(*at, now, "ago", "from now")
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.RosterPage{
		DepartmentID: departmentID,
		Page:         int(page),
		PerPage:      int(perPage),
		Total:        total,
		Voters:       entries,
	})
}
