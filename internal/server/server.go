// Package server receives provider webhook deliveries over HTTP and hands
// accepted events to a sink.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/internal/webhook"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DeliveryIDHeader is set on every webhook response.
const DeliveryIDHeader = "X-Delivery-Id"

type Server struct {
	http.Handler

	log     logr.Logger
	manager *webhook.Manager
	sink    EventSink
	metrics *Metrics
}

// New builds the receiver. path is the callback path registered with the
// provider, "/webhook" when empty.
func New(log logr.Logger, manager *webhook.Manager, sink EventSink, metrics *Metrics, path string) *Server {
	if path == "" {
		path = constants.DefaultWebhookPath
	}

	s := &Server{
		log:     log,
		manager: manager,
		sink:    sink,
		metrics: metrics,
	}

	r := mux.NewRouter()
	r.Methods("POST").Path(path).HandlerFunc(s.handleDelivery)
	r.Path(path).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, proposify.Record{"error": "Method not allowed"})
	})
	r.Methods("GET").Path("/healthz").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, proposify.Record{"status": "ok"})
	})

	s.Handler = r

	return s
}

func (s *Server) handleDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryID := uuid.NewString()
	log := s.log.WithValues("delivery", deliveryID, "path", r.URL.Path)

	w.Header().Set(DeliveryIDHeader, deliveryID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxDeliveryBodyBytes))
	if err != nil {
		status := http.StatusBadRequest

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		log.Error(err, "could not read delivery body")
		s.metrics.observe(OutcomeBadRequest)
		writeJSON(w, status, proposify.Record{"error": "could not read body"})

		return
	}

	result := s.manager.HandleDelivery(body, r.Header)
	if !result.Accepted() {
		outcome := OutcomeBadRequest
		if result.Status == http.StatusUnauthorized {
			outcome = OutcomeInvalidSignature
		}

		log.Info("delivery rejected", "status", result.Status)
		s.metrics.observe(outcome)
		writeJSON(w, result.Status, result.Error)

		return
	}

	err = s.sink.Emit(r.Context(), deliveryID, result.Event)
	if err != nil {
		log.Error(err, "could not emit event")
		s.metrics.observe(OutcomeSinkError)
		writeJSON(w, http.StatusInternalServerError, proposify.Record{"error": "could not process event"})

		return
	}

	log.V(1).Info("delivery accepted", "event", result.Event["event"])
	s.metrics.observe(OutcomeAccepted)
	writeJSON(w, http.StatusOK, proposify.Record{"received": true})
}

func writeJSON(w http.ResponseWriter, status int, body proposify.Record) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
