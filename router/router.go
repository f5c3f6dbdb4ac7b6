// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/handlers"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/store"
)

func NewRouter(s *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(s, cfg)
	resultsHandler := handlers.NewResultsHandler(s)
	adminHandler := handlers.NewAdminHandler(s)

	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireVoterSession(cfg.SessionSecret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminKey(cfg.AdminKeyHash, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter flow
	mux.HandleFunc("POST /voters/register", middleware.WithLogging(voterHandler.Register))
	mux.HandleFunc("POST /voter/login", middleware.WithLogging(voterHandler.Login))
	mux.HandleFunc("GET /voter/ballot", voter(voterHandler.GetBallot))
	mux.HandleFunc("POST /voter/ballot", voter(voterHandler.SubmitBallot))

	// Results (public)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/totals", middleware.WithLogging(resultsHandler.GetTotals))
	mux.HandleFunc("GET /departments/{id}/voters", middleware.WithLogging(resultsHandler.GetDepartmentVoters))

	// Election administration
	mux.HandleFunc("POST /admin/departments", admin(adminHandler.CreateDepartment))
	mux.HandleFunc("POST /admin/courses", admin(adminHandler.CreateCourse))
	mux.HandleFunc("POST /admin/elections", admin(adminHandler.CreateElection))
	mux.HandleFunc("POST /admin/elections/{id}/activate", admin(adminHandler.ActivateElection))
	mux.HandleFunc("POST /admin/elections/{id}/deactivate", admin(adminHandler.DeactivateElection))
	mux.HandleFunc("POST /admin/positions", admin(adminHandler.CreatePosition))
	mux.HandleFunc("POST /admin/candidates", admin(adminHandler.CreateCandidate))

	// Ledger mutation
	mux.HandleFunc("POST /admin/ledger/add", admin(adminHandler.AddVotes))
	mux.HandleFunc("POST /admin/ledger/remove", admin(adminHandler.RemoveVotes))
	mux.HandleFunc("POST /admin/ledger/reassign", admin(adminHandler.ReassignVotes))

	// Roster import
	mux.HandleFunc("POST /admin/import/json", admin(adminHandler.ImportJSON))
	mux.HandleFunc("POST /admin/import/csv", admin(adminHandler.ImportCSV))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("campus-vote API v1"))
	})

	return mux
}
