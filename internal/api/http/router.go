package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"docs-approval-backend/internal/config"
	"docs-approval-backend/internal/metrics"
	"docs-approval-backend/internal/service"
)

// Services groups what the REST surface depends on
type Services struct {
	Registrations service.RegistrationService
	Translations  service.TranslationService
	Auth          service.AuthService
	Health        Pinger
}

type RouterConfig struct {
	Pagination         PaginationConfig
	CORSAllowedOrigins []string
}

// NewRouter builds the REST API. Every route is named so the auth middleware
// can resolve its security level.
func NewRouter(svcs Services, cfg RouterConfig) http.Handler {
	router := mux.NewRouter()

	registrations := NewRegistrationHandler(svcs.Registrations, cfg.Pagination)
	translations := NewTranslationHandler(svcs.Translations)
	auth := NewAuthHandler(svcs.Auth)
	health := NewHealthHandler(svcs.Health)

	router.HandleFunc("/healthz", health.Health).Methods(http.MethodGet).Name(config.RouteHealth)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name(config.RouteMetrics)
	router.HandleFunc("/user/login", auth.Login).Methods(http.MethodPost).Name(config.RouteLogin)

	router.HandleFunc("/user/registration", registrations.Submit).Methods(http.MethodPut).Name(config.RouteRegistrationSubmit)
	router.HandleFunc("/user/registration", registrations.List).Methods(http.MethodGet).Name(config.RouteRegistrationList)
	router.HandleFunc("/user/registration/{id:[a-z0-9-]+}", registrations.Get).Methods(http.MethodGet).Name(config.RouteRegistrationGet)
	router.HandleFunc("/user/registration/{id:[a-z0-9-]+}/approve", registrations.Approve).Methods(http.MethodPost).Name(config.RouteRegistrationApprove)
	router.HandleFunc("/user/registration/{id:[a-z0-9-]+}/reject", registrations.Reject).Methods(http.MethodPost).Name(config.RouteRegistrationReject)

	router.HandleFunc("/file/translate/start", translations.Start).Methods(http.MethodPost).Name(config.RouteTranslateStart)
	router.HandleFunc("/file/translate/status", translations.Status).Methods(http.MethodGet).Name(config.RouteTranslateStatus)
	router.HandleFunc("/file/translate/download", translations.Download).Methods(http.MethodGet).Name(config.RouteTranslateDownload)
	router.HandleFunc("/file/translate/languages", translations.Languages).Methods(http.MethodGet).Name(config.RouteTranslateLanguages)

	authn := &authenticator{auth: svcs.Auth}
	router.Use(accessLog, authn.middleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	})

	return c.Handler(requestID(recovery(router)))
}
