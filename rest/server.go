package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/service"
	"go.uber.org/zap"
)

const SIGNATURE_HEADER string = "X-Signature"

type Server struct {
	http.Server
	Port            int
	triggerService  *service.AutomationTriggerService
	secret          string
	signatureHeader string
}

func NewServer(httpPort int, triggerService *service.AutomationTriggerService, secret string, signatureHeader string) (*Server, error) {
	if signatureHeader == "" {
		signatureHeader = SIGNATURE_HEADER
	}
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		Port:            httpPort,
		triggerService:  triggerService,
		secret:          secret,
		signatureHeader: signatureHeader,
	}
	if secret == "" {
		logger.Warn("no webhook secret configured, trigger endpoint accepts unsigned requests")
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/trigger", s.HandleTrigger).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/execution/{id}", s.HandleGetExecution).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
