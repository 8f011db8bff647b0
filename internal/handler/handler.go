package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/publish"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/session"
)

// Planner 由 gateway.Client 实现
type Planner interface {
	ListInstallers(ctx context.Context) ([]domain.Installer, error)
	ListJobs(ctx context.Context, q string) ([]domain.Job, error)
	SaveOverrides(ctx context.Context, overrides []domain.Override) ([]domain.Override, error)
	BuildSchedule(ctx context.Context) ([]domain.ScheduleItem, error)
}

// AuditLog 由 repository.Repository 实现
type AuditLog interface {
	InsertPublishRecord(ctx context.Context, record *domain.PublishRecord) error
	GetRecentPublishRecords(ctx context.Context, limit int) ([]*domain.PublishRecord, error)
	InsertOverrideRevision(ctx context.Context, revision *domain.OverrideRevision) error
	GetOverrideRevisions(ctx context.Context, sessionID string) ([]*domain.OverrideRevision, error)
}

type Handler struct {
	validate   *validator.Validate
	translator ut.Translator
	config     *config.Config
	location   *time.Location
	now        func() time.Time

	planner   Planner
	sessions  session.Store
	publisher publish.Publisher
	audit     AuditLog
	metrics   http.Handler

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, planner Planner, sessions session.Store, publisher publish.Publisher, audit AuditLog, metrics http.Handler) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Calendar.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("无效的时区 %s: %w", cfg.Calendar.TimeZone, err)
	}

	return &Handler{
		validate:   validate,
		translator: trans,
		config:     cfg,
		location:   loc,
		now:        time.Now,

		planner:   planner,
		sessions:  sessions,
		publisher: publisher,
		audit:     audit,
		metrics:   metrics,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	if h.metrics != nil {
		h.Mux.Method(http.MethodGet, "/metrics", h.metrics)
	}

	h.Mux.Group(func(r chi.Router) {
		r.Use(h.session)

		r.Get("/dashboard", h.GetDashboard)
		r.Get("/installers", h.GetInstallers)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.GetJobs)
			r.Route("/{jobID}/override", func(r chi.Router) {
				r.Get("/", h.GetOverrideDraft)
				r.Post("/", h.SaveOverride)
			})
		})

		r.Route("/overrides", func(r chi.Router) {
			r.Get("/", h.GetOverrides)
			r.Get("/revisions", h.GetOverrideRevisions)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/", h.BuildSchedule)
			r.Get("/", h.GetSchedule)
			r.Get("/events", h.GetScheduleEvents)
			r.Get("/export.ics", h.ExportScheduleICS)
			r.Post("/publish", h.PublishSchedule)
		})

		r.Get("/publishes", h.GetPublishRecords)
	})
}
