package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/metrics"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/service"
	"go.uber.org/zap"
)

// HandleTrigger authenticates and enqueues one execution. The response is
// an acknowledgment with the execution id; it never waits for the run.
func (s *Server) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.TriggersReceived.WithLabelValues("error").Inc()
		respondWithError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	// Signature covers the exact raw body bytes.
	if s.secret != "" {
		signature := r.Header.Get(s.signatureHeader)
		if !VerifySignature(s.secret, body, signature) {
			metrics.TriggersReceived.WithLabelValues("unauthorized").Inc()
			logger.Warn("trigger rejected, invalid signature", zap.String("remote", r.RemoteAddr))
			respondWithError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
	} else {
		logger.Warn("accepting unsigned trigger request", zap.String("remote", r.RemoteAddr))
	}

	var req model.TriggerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.TriggersReceived.WithLabelValues("invalid").Inc()
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	executionId, err := s.triggerService.Trigger(r.Context(), req)
	if err != nil {
		var validationErr service.ValidationError
		var notFoundErr persistence.NotFoundError
		switch {
		case errors.As(err, &validationErr):
			metrics.TriggersReceived.WithLabelValues("invalid").Inc()
			respondWithError(w, http.StatusBadRequest, validationErr.Message)
		case errors.As(err, &notFoundErr):
			metrics.TriggersReceived.WithLabelValues("not_found").Inc()
			respondWithError(w, http.StatusNotFound, err.Error())
		default:
			metrics.TriggersReceived.WithLabelValues("error").Inc()
			logger.Error("error handling trigger", zap.String("automationId", req.AutomationId), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "error creating execution")
		}
		return
	}
	metrics.TriggersReceived.WithLabelValues("accepted").Inc()
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "execution_id": executionId})
}

func (s *Server) HandleGetExecution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		respondWithError(w, http.StatusBadRequest, "missing execution id")
		return
	}
	execution, err := s.triggerService.GetExecution(r.Context(), id)
	if err != nil {
		var notFoundErr persistence.NotFoundError
		if errors.As(err, &notFoundErr) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("error getting execution", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error getting execution")
		return
	}
	respondWithJSON(w, http.StatusOK, execution)
}
