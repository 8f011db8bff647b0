package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/planner"
)

const defaultPublishRecordLimit = 20

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Context().Value(SessionIDCtx).(string)

	var req struct {
		WebhookURL string `json:"webhook_url" validate:"required,url"`
		Title      string `json:"title" validate:"max=200"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	title := req.Title
	if title == "" {
		title = h.config.Publish.Title
	}

	items, err := h.currentSchedule(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	payload, err := planner.BuildPublishPayload(items, req.WebhookURL, h.config.ICSURL(), title)
	if err != nil {
		if errors.Is(err, planner.ErrEmptySchedule) {
			h.errorResponse(w, r, err.Error())
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publisher.Publish(r.Context(), sessionID, payload); err != nil {
		h.upstreamError(w, r, err)
		return
	}

	record := &domain.PublishRecord{
		SessionID:   sessionID,
		WebhookHost: webhookHost(req.WebhookURL),
		Title:       payload.Title,
		LineCount:   len(payload.Lines),
		Mode:        h.publisher.Mode(),
	}
	if err := h.audit.InsertPublishRecord(r.Context(), record); err != nil {
		slog.Error("无法记录发布", "session", sessionID, "error", err)
	}

	h.successResponse(w, r, "发布成功", payload)
}

func (h *Handler) GetPublishRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultPublishRecordLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			h.errorResponse(w, r, "limit 必须是 1 到 100 之间的整数")
			return
		}
		limit = n
	}

	records, err := h.audit.GetRecentPublishRecords(r.Context(), limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取发布记录成功", records)
}

// webhookHost 只保留 webhook 的主机名，完整地址中带有密钥，不能落库
func webhookHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
