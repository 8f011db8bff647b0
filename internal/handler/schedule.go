package handler

import (
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/planner"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/session"
)

// BuildSchedule 让远程服务重新排班，再把会话中的 override 应用到结果上
func (h *Handler) BuildSchedule(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionIDCtx).(string)

	seq, err := h.sessions.NextSeq(r.Context(), sessionID, session.ViewSchedule)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var (
		base       []domain.ScheduleItem
		installers []domain.Installer
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		base, err = h.planner.BuildSchedule(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		installers, err = h.planner.ListInstallers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.upstreamError(w, r, err)
		return
	}

	overrides, err := h.sessions.Overrides(r.Context(), sessionID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	items, err := planner.Materialize(base, overrides, installers)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.sessions.CommitSchedule(r.Context(), sessionID, seq, items); err != nil {
		if errors.Is(err, session.ErrStale) {
			h.upstreamError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班成功", items)
}

func (h *Handler) currentSchedule(r *http.Request) ([]domain.ScheduleItem, error) {
	sessionID := r.Context().Value(SessionIDCtx).(string)

	items, err := h.sessions.Schedule(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ScheduleItem{}
	}
	return items, nil
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	items, err := h.currentSchedule(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班结果成功", items)
}

func (h *Handler) GetScheduleEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.currentSchedule(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	events, err := planner.ToEvents(items, h.location)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取日历事件成功", events)
}

func (h *Handler) ExportScheduleICS(w http.ResponseWriter, r *http.Request) {
	items, err := h.currentSchedule(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	doc, err := planner.BuildICS(items, h.config.Calendar.Name, h.now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
