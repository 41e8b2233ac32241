package server

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/services/export"
	"lotwatch/torgiwatch/services/worker"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type dictionariesResponse struct {
	Regions  []string `json:"regions"`
	Statuses []string `json:"statuses"`
	LotTypes []string `json:"lot_types"`
}

type checkResponse struct {
	Success bool `json:"success"`
	worker.Summary
}

type statusResponse struct {
	TotalLots     int          `json:"total_lots"`
	Filters       model.Filter `json:"filters"`
	CheckInterval int          `json:"check_interval"`
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	replyJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (s *Server) getDictionaries(w http.ResponseWriter, r *http.Request) error {
	replyJSON(w, http.StatusOK, dictionariesResponse{
		Regions:  model.Regions,
		Statuses: model.Statuses,
		LotTypes: model.LotTypes,
	})
	return nil
}

func (s *Server) getFilters(w http.ResponseWriter, r *http.Request) error {
	filter, _, err := s.store.GetFilter(r.Context())
	if err != nil {
		return err
	}
	replyJSON(w, http.StatusOK, filter)
	return nil
}

func (s *Server) postFilters(w http.ResponseWriter, r *http.Request) error {
	filter, err := readFilter(r)
	if err != nil {
		return err
	}
	if err := s.store.SaveFilter(r.Context(), filter); err != nil {
		return err
	}
	replyJSON(w, http.StatusOK, successResponse{Success: true})
	return nil
}

func (s *Server) getLots(w http.ResponseWriter, r *http.Request) error {
	lots, err := s.store.List(r.Context(), listQuery(r))
	if err != nil {
		return err
	}
	if lots == nil {
		lots = []model.Lot{}
	}
	replyJSON(w, http.StatusOK, lots)
	return nil
}

func (s *Server) getLot(w http.ResponseWriter, r *http.Request) error {
	lot, err := s.store.Get(r.Context(), chi.URLParam(r, "lotNumber"))
	if err != nil {
		return err
	}
	replyJSON(w, http.StatusOK, lot)
	return nil
}

func (s *Server) getLotHistory(w http.ResponseWriter, r *http.Request) error {
	history, err := s.store.StatusHistory(r.Context(), chi.URLParam(r, "lotNumber"))
	if err != nil {
		return err
	}
	if history == nil {
		history = []model.StatusChange{}
	}
	replyJSON(w, http.StatusOK, history)
	return nil
}

func (s *Server) postCheck(w http.ResponseWriter, r *http.Request) error {
	maxPages := s.opts.MaxPagesCheck
	if r.URL.Query().Get("full") == "true" {
		maxPages = s.opts.MaxPagesFull
	}

	// a manual check runs to completion even if the client goes away
	summary, err := s.checker.Check(context.WithoutCancel(r.Context()), maxPages)
	if err != nil {
		return err
	}
	replyJSON(w, http.StatusOK, checkResponse{Success: true, Summary: summary})
	return nil
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) error {
	total, err := s.store.Count(r.Context())
	if err != nil {
		return err
	}
	filter, _, err := s.store.GetFilter(r.Context())
	if err != nil {
		return err
	}

	replyJSON(w, http.StatusOK, statusResponse{
		TotalLots:     total,
		Filters:       filter,
		CheckInterval: int(s.opts.CheckInterval.Minutes()),
	})
	return nil
}

func (s *Server) getExport(w http.ResponseWriter, r *http.Request) error {
	lots, err := s.store.List(r.Context(), listQuery(r))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, lots); err != nil {
		return err
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(s.now())+`"`)
	if _, err := buf.WriteTo(w); err != nil {
		logger.ForServer().Warn().Err(err).Msg("export download interrupted")
	}
	return nil
}
