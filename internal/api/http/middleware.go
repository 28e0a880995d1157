package http

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"docs-approval-backend/internal/config"
	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/metrics"
	"docs-approval-backend/internal/service"
)

const requestIDHeader = "X-Request-ID"

// requestID tags each request with an id, reusing the caller's when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

// recovery converts a panic into an UnknownError response
func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.FromContext(r.Context()).Error("Panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p,
					"stack", string(debug.Stack()),
				)
				writeJSON(w, http.StatusInternalServerError, domain.NewServerError(domain.ErrTypeUnknown, "An unexpected error occurred", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog logs each request and records it in the HTTP metrics, labelled by route name.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		latency := time.Since(start)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil && current.GetName() != "" {
			route = current.GetName()
		}
		metrics.RecordHTTPRequest(r.Method, route, rec.status, latency)

		log := logger.FromContext(r.Context()).With(
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"latency_ms", latency.Milliseconds(),
		)
		switch {
		case rec.status >= 500:
			log.Error("Request failed with server error")
		case rec.status >= 400:
			log.Warn("Request failed with client error")
		default:
			log.Info("Request completed")
		}
	})
}

// authenticator enforces the security level configured for the matched route.
type authenticator struct {
	auth service.AuthService
}

func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if current := mux.CurrentRoute(r); current != nil {
			route = current.GetName()
		}
		level := config.GetSecurityLevel(route)

		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		var principal *domain.Principal
		if token := bearerToken(r); token != "" {
			p, err := a.auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Debug("Token rejected", "route", route, "error", err)
			} else {
				principal = p
			}
		}

		switch level {
		case config.SecurityUser:
			if principal == nil {
				writeError(w, r, domain.NewForbiddenError("Authentication required"))
				return
			}
		case config.SecurityAdmin:
			if !principal.IsAdmin() {
				writeError(w, r, domain.NewForbiddenError("Administrator privileges required"))
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
