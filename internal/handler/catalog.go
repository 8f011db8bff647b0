package handler

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/revenue"
)

type dashboardSummary struct {
	InstallerCount int            `json:"installerCount"`
	JobCount       int            `json:"jobCount"`
	TotalRevenue   string         `json:"totalRevenue"`
	BucketCounts   map[string]int `json:"bucketCounts"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		installers []domain.Installer
		jobs       []domain.Job
	)

	// 两个请求互不依赖，同时发出
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		installers, err = h.planner.ListInstallers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = h.planner.ListJobs(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		h.upstreamError(w, r, err)
		return
	}

	summary := dashboardSummary{
		InstallerCount: len(installers),
		JobCount:       len(jobs),
		BucketCounts:   make(map[string]int, len(revenue.Buckets)),
	}
	for _, b := range revenue.Buckets {
		summary.BucketCounts[b] = 0
	}

	var total float64
	for _, job := range jobs {
		total += job.Revenue
		summary.BucketCounts[job.RevenueBucket]++
	}
	summary.TotalRevenue = revenue.FormatCurrency(total)

	h.successResponse(w, r, "获取概览成功", summary)
}

func (h *Handler) GetInstallers(w http.ResponseWriter, r *http.Request) {
	installers, err := h.planner.ListInstallers(r.Context())
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取安装商列表成功", installers)
}

func (h *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.planner.ListJobs(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.upstreamError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取任务列表成功", jobs)
}
