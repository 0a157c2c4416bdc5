package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/melodex/melodex/internal/handler"
	"github.com/melodex/melodex/internal/llm"
	"github.com/melodex/melodex/internal/middleware"
	"github.com/melodex/melodex/internal/pipeline"
	"github.com/melodex/melodex/internal/security"
	"github.com/melodex/melodex/internal/session"
	"github.com/melodex/melodex/internal/store"
)

// setupRoutes returns (router, store) so the store can be closed on
// shutdown. Missing dependencies degrade the route set instead of
// failing startup: without a store only /health answers, without an
// LLM key only direct SQL works.
func (s *Server) setupRoutes() (http.Handler, *store.Store, error) {
	cfg := s.cfg

	var st *store.Store
	if cfg.DatabasePath != "" {
		var err error
		st, err = store.Open(cfg.DatabasePath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.DatabasePath).Msg("store unavailable")
			st = nil
		}
	} else {
		log.Warn().Msg("MELODEX_DB_PATH not set - store disabled")
	}

	var llmClient *llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient = llm.NewClient(cfg.AnthropicAPIKey, cfg.Model, cfg.AnthropicBaseURL,
			time.Duration(cfg.LLMTimeout)*time.Second)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - natural-language queries disabled")
	}

	log.Info().
		Bool("store_enabled", st != nil).
		Bool("llm_enabled", llmClient != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)
	sessions := session.NewManager()

	var checker handler.HealthChecker
	if st != nil {
		checker = st
	}
	healthH := handler.NewHealthHandler(checker)
	examplesH := handler.NewExamplesHandler()
	historyH := handler.NewHistoryHandler(sessions)
	reportH := handler.NewReportHandler(sessions)

	var tablesH *handler.TablesHandler
	var askH *handler.AskHandler
	var queryH *handler.QueryHandler

	if st != nil {
		tablesH = handler.NewTablesHandler(st)

		validator := security.NewSQLValidator(st)
		var translator pipeline.Translator
		var summarizer pipeline.Summarizer
		if llmClient != nil {
			translator = llmClient
			summarizer = llmClient
		}
		p := pipeline.New(st, translator, summarizer, validator)

		queryH = handler.NewQueryHandler(p, sessions, auditLogger)
		if llmClient != nil {
			askH = handler.NewAskHandler(p, sessions, auditLogger)
		}
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Timeout(time.Duration(cfg.QueryTimeoutMs) * time.Millisecond))

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Get("/examples", examplesH.Examples)
			r.Get("/history", historyH.GetHistory)
			r.Delete("/history", historyH.ResetHistory)
			r.Post("/report", reportH.Report)

			if tablesH != nil {
				r.Get("/database", tablesH.GetDatabase)
				r.Get("/tables", tablesH.ListTables)
				r.Get("/tables/{table}", tablesH.GetTable)
				r.Get("/tables/{table}/sample", tablesH.SampleTable)
			}
			if queryH != nil {
				r.Post("/query", queryH.Query)
			}
			if askH != nil {
				r.Post("/ask", askH.Ask)
			}
		})
	})

	return r, st, nil
}
