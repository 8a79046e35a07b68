package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/trigger"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
	maxBodyBytes    = 1 << 20
)

// Response types for JSON serialization

type DeliveryResponse struct {
	Deliveries int                `json:"deliveries"`
	Results    []trigger.Delivery `json:"results"`
}

type LogListResponse struct {
	Destination string           `json:"destination"`
	Header      []string         `json:"header"`
	Entries     []audit.LogEntry `json:"entries"`
	Limit       int              `json:"limit"`
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeDeliveries acknowledges the host with 202 even when a handler failed;
// failures are visible in the results, the service log and metrics.
func (s *Server) writeDeliveries(w http.ResponseWriter, deliveries []trigger.Delivery, err error) {
	if err != nil {
		s.logger.WithError(err).Error("dispatch failed")
		writeError(w, http.StatusInternalServerError, "Failed to dispatch notification")
		return
	}
	if deliveries == nil {
		deliveries = []trigger.Delivery{}
	}
	writeJSON(w, http.StatusAccepted, DeliveryResponse{
		Deliveries: len(deliveries),
		Results:    deliveries,
	})
}

// Handlers

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var n audit.EditNotification
	if !decodeBody(w, r, &n) {
		return
	}
	deliveries, err := s.dispatcher.DispatchEdit(r.Context(), n)
	s.writeDeliveries(w, deliveries, err)
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	var n audit.ChangeNotification
	if !decodeBody(w, r, &n) {
		return
	}
	deliveries, err := s.dispatcher.DispatchChange(r.Context(), n)
	s.writeDeliveries(w, deliveries, err)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var n audit.OpenNotification
	if !decodeBody(w, r, &n) {
		return
	}
	deliveries, err := s.dispatcher.DispatchOpen(r.Context(), n)
	s.writeDeliveries(w, deliveries, err)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	destination := r.PathValue("destination")

	limit := defaultLogLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxLogLimit {
			limit = parsed
		}
	}

	logSink, ok, err := s.logs.Lookup(ctx, destination)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to open log destination")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown log destination")
		return
	}
	entries, err := logSink.Entries(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read log entries")
		return
	}
	if entries == nil {
		entries = []audit.LogEntry{}
	}

	writeJSON(w, http.StatusOK, LogListResponse{
		Destination: destination,
		Header:      audit.Header,
		Entries:     entries,
		Limit:       limit,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
