package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/planner"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/session"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/utils"
)

func (h *Handler) GetOverrides(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionIDCtx).(string)

	overrides, err := h.sessions.Overrides(r.Context(), sessionID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if overrides == nil {
		overrides = []domain.Override{}
	}

	h.successResponse(w, r, "获取 override 列表成功", overrides)
}

func (h *Handler) GetOverrideRevisions(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionIDCtx).(string)

	revisions, err := h.audit.GetOverrideRevisions(r.Context(), sessionID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取 override 修改记录成功", revisions)
}

// GetOverrideDraft 返回编辑某个 job 的 override 时表单的初始值
func (h *Handler) GetOverrideDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionIDCtx).(string)
	jobID := chi.URLParam(r, "jobID")

	installers, err := h.planner.ListInstallers(r.Context())
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}

	existing, err := h.sessions.Overrides(r.Context(), sessionID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	draft := planner.DefaultOverride(jobID, existing, installers, h.now().In(h.location))
	h.successResponse(w, r, "获取 override 初始值成功", draft)
}

func (h *Handler) SaveOverride(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionIDCtx).(string)

	var req struct {
		InstallerID string `json:"installer_id"`
		StartDate   string `json:"start_date"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	next := domain.Override{
		JobID:       chi.URLParam(r, "jobID"),
		InstallerID: req.InstallerID,
		StartDate:   req.StartDate,
	}

	// 缺少字段时不需要访问远程服务
	if next.InstallerID == "" || next.StartDate == "" {
		h.badRequest(w, r, utils.ErrOverrideIncomplete)
		return
	}

	installers, err := h.planner.ListInstallers(r.Context())
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}
	if err := utils.ValidateOverride(next, installers); err != nil {
		h.badRequest(w, r, err)
		return
	}

	seq, err := h.sessions.NextSeq(r.Context(), sessionID, session.ViewOverrides)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	existing, err := h.sessions.Overrides(r.Context(), sessionID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 以远程服务返回的列表为准
	saved, err := h.planner.SaveOverrides(r.Context(), planner.Reconcile(existing, next))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}

	if err := h.sessions.CommitOverrides(r.Context(), sessionID, seq, saved); err != nil {
		if errors.Is(err, session.ErrStale) {
			h.upstreamError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	revision := &domain.OverrideRevision{
		SessionID: sessionID,
		JobID:     next.JobID,
		Overrides: saved,
	}
	if err := h.audit.InsertOverrideRevision(r.Context(), revision); err != nil {
		// override 已经保存成功，记录失败不影响本次操作
		slog.Error("无法记录 override 修改", "session", sessionID, "job", next.JobID, "error", err)
	}

	h.successResponse(w, r, "保存 override 成功", saved)
}
