// Package gateway 是访问远程排班服务的客户端，所有响应在返回前都会经过结构校验
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sysu-ecnc-dev/install-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/revenue"
	"github.com/sysu-ecnc-dev/install-planner/backend/internal/utils"
)

type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	metrics  *Metrics
}

// NewClient 创建客户端，metrics 可以为 nil
func NewClient(baseURL string, timeout time.Duration, metrics *Metrics) *Client {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 报错时使用 json 字段名，和远程服务的约定保持一致
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		validate: validate,
		metrics:  metrics,
	}
}

func (c *Client) ListInstallers(ctx context.Context) ([]domain.Installer, error) {
	var installers []domain.Installer

	err := c.call(ctx, "list_installers", http.MethodGet, "/installers", nil, nil, func(body []byte) error {
		wires, err := decodeList[installerWire](c, body)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(wires))
		installers = make([]domain.Installer, 0, len(wires))
		for _, w := range wires {
			installer := w.toDomain()
			if seen[installer.ID] {
				return fmt.Errorf("%w: duplicate installer id %s", ErrInvalidPayload, installer.ID)
			}
			seen[installer.ID] = true
			installers = append(installers, installer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return installers, nil
}

// ListJobs 获取 job 列表，q 非空时作为搜索条件。返回的每个 job 都已经带上 revenue bucket
func (c *Client) ListJobs(ctx context.Context, q string) ([]domain.Job, error) {
	var query url.Values
	if q != "" {
		query = url.Values{"q": []string{q}}
	}

	var jobs []domain.Job

	err := c.call(ctx, "list_jobs", http.MethodGet, "/jobs", query, nil, func(body []byte) error {
		wires, err := decodeList[jobWire](c, body)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(wires))
		jobs = make([]domain.Job, 0, len(wires))
		for _, w := range wires {
			job := w.toDomain()
			if seen[job.JobID] {
				return fmt.Errorf("%w: duplicate job id %s", ErrInvalidPayload, job.JobID)
			}
			seen[job.JobID] = true

			job.RevenueBucket = revenue.Bucket(job.Revenue)
			job.RevenueDisplay = revenue.FormatCurrency(job.Revenue)
			jobs = append(jobs, job)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// SaveOverrides 将完整的 override 列表发送给远程服务，返回远程服务保存后的权威版本
func (c *Client) SaveOverrides(ctx context.Context, overrides []domain.Override) ([]domain.Override, error) {
	if overrides == nil {
		overrides = []domain.Override{}
	}

	var saved []domain.Override

	err := c.call(ctx, "save_overrides", http.MethodPost, "/overrides", nil, overrides, func(body []byte) error {
		wires, err := decodeList[overrideWire](c, body)
		if err != nil {
			return err
		}

		saved = make([]domain.Override, 0, len(wires))
		for _, w := range wires {
			saved = append(saved, w.toDomain())
		}
		if err := utils.ValidateUniqueOverrides(saved); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// BuildSchedule 让远程服务重新计算排班
func (c *Client) BuildSchedule(ctx context.Context) ([]domain.ScheduleItem, error) {
	var items []domain.ScheduleItem

	err := c.call(ctx, "build_schedule", http.MethodPost, "/schedule", nil, struct{}{}, func(body []byte) error {
		wires, err := decodeList[scheduleItemWire](c, body)
		if err != nil {
			return err
		}

		items = make([]domain.ScheduleItem, 0, len(wires))
		for _, w := range wires {
			item := w.toDomain()
			if err := utils.ValidateScheduleItem(item); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// PublishToTeams 只关心状态码，响应体没有约定
func (c *Client) PublishToTeams(ctx context.Context, payload domain.PublishPayload) error {
	return c.call(ctx, "publish_teams", http.MethodPost, "/teams/publish", nil, payload, nil)
}

func (c *Client) call(ctx context.Context, operation, method, path string, query url.Values, reqBody any, decode func([]byte) error) error {
	start := time.Now()

	err := c.roundTrip(ctx, method, path, query, reqBody, decode)

	outcome := outcomeSuccess
	switch {
	case errors.Is(err, ErrInvalidPayload):
		outcome = outcomeInvalidPayload
	case err != nil:
		outcome = outcomeTransportError
	}
	c.metrics.observe(operation, outcome, time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, reqBody any, decode func([]byte) error) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	if decode == nil {
		return nil
	}
	return decode(respBody)
}

// decodeList 把响应解码为 W 的数组并逐个校验，任何一个元素不合法都会导致整个响应被拒绝
func decodeList[W any](c *Client, body []byte) ([]W, error) {
	var list *[]W
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: expected an array, got null", ErrInvalidPayload)
	}

	for i, w := range *list {
		if err := c.validate.Struct(w); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				fe := validationErrors[0]
				return nil, fmt.Errorf("%w: [%d].%s failed on %q", ErrInvalidPayload, i, fe.Field(), fe.Tag())
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	return *list, nil
}
