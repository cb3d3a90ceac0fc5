package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TeamPulse-Labs/Rebalance/internal/advisor"
	"github.com/TeamPulse-Labs/Rebalance/internal/config"
	"github.com/TeamPulse-Labs/Rebalance/internal/pulse"
	"github.com/TeamPulse-Labs/Rebalance/internal/recommend"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

func NewRouter(s store.Store, p pulse.Client, adv *advisor.Advisor, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	tunables := recommend.Tunables{
		SuggestThreshold: cfg.Recommend.SuggestThreshold,
		PreferredBonus:   cfg.Recommend.PreferredBonus,
		AvoidedPenalty:   cfg.Recommend.AvoidedPenalty,
	}

	tasks := NewTasksHandler(s, p)
	students := NewStudentsHandler(s)
	assessments := NewAssessmentsHandler(s, adv)
	skills := NewSkillsHandler(s, adv)
	suggestions := NewSuggestionsHandler(s, tunables, logger)
	explain := NewExplainHandler(s, adv)
	admin := NewAdminHandler(s, adv, cfg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/tasks", tasks.Create)
		r.Get("/tasks", tasks.List)
		r.Get("/tasks/{id}", tasks.Get)
		r.Patch("/tasks/{id}", tasks.Update)
		r.Post("/tasks/{id}/start", tasks.Start)
		r.Post("/tasks/{id}/complete", tasks.Complete)
		r.Post("/tasks/{id}/reassign", tasks.Reassign)

		r.Post("/teams", students.CreateTeam)
		r.Get("/teams", students.ListTeams)

		r.Post("/students", students.Create)
		r.Get("/students", students.List)
		r.Get("/students/{id}", students.Get)
		r.Patch("/students/{id}", students.Update)

		r.Post("/students/{id}/assessments", assessments.Upsert)
		r.Get("/students/{id}/assessments", assessments.List)
		r.Get("/students/{id}/skills", skills.GetAll)
		r.Get("/students/{id}/skills/{category}", skills.GetOne)

		r.Get("/suggestions", suggestions.Fresh)
		r.Get("/suggestions/latest", suggestions.Latest)

		r.Get("/scoring/explain/{student_id}", explain.Explain)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Get("/stats", admin.Stats)
			r.Get("/weights", admin.Weights)
			r.Get("/overview", admin.Overview)
			r.Post("/students/{id}/mute", admin.Mute)
			r.Delete("/students/{id}/mute", admin.Unmute)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
