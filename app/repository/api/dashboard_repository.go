package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	models "school-analytics-dashboard/app/models/analytics"
	"school-analytics-dashboard/app/repository"
)

// StatusError adalah respons non-2xx dari backend
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend responded %d", e.Code)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Code, e.Detail)
}

type dashboardRepoAPI struct {
	baseURL string
	timeout time.Duration
}

// NewDashboardRepository membaca resource analitik dari REST API backend sekolah
func NewDashboardRepository(baseURL string, timeout time.Duration) repository.DashboardRepository {
	return &dashboardRepoAPI{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (r *dashboardRepoAPI) GetDashboardStats(ctx context.Context, token string) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.get(ctx, "/analytics/dashboard-stats", token, "dashboard stats", &stats)
	return stats, err
}

func (r *dashboardRepoAPI) GetStudentCountByMajor(ctx context.Context, token string) ([]models.StudentCountByMajor, error) {
	var out []models.StudentCountByMajor
	if err := r.get(ctx, "/analytics/student-count-by-major", token, "student count by major", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.StudentCountByMajor{}
	}
	return out, nil
}

func (r *dashboardRepoAPI) GetStudentGrowth(ctx context.Context, token string, years int) ([]models.StudentGrowth, error) {
	path := "/analytics/student-growth"
	if years > 0 {
		path += "?years=" + strconv.Itoa(years)
	}

	var out []models.StudentGrowth
	if err := r.get(ctx, path, token, "student growth", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.StudentGrowth{}
	}
	return out, nil
}

func (r *dashboardRepoAPI) GetBrowserUsage(ctx context.Context, token string) ([]models.BrowserUsage, error) {
	var out []models.BrowserUsage
	if err := r.get(ctx, "/analytics/browser-usage", token, "browser usage", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.BrowserUsage{}
	}
	return out, nil
}

func (r *dashboardRepoAPI) GetActivityLogs(ctx context.Context, token string, limit int) ([]models.ActivityLog, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out []models.ActivityLog
	if err := r.get(ctx, "/activity-logs/?"+q.Encode(), token, "activity logs", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ActivityLog{}
	}
	return out, nil
}

// get melakukan GET ber-Bearer dan decode body JSON ke out.
// fiber.Agent tidak menerima context, jadi ctx hanya dicek sebelum request; sisanya dibatasi timeout.
func (r *dashboardRepoAPI) get(ctx context.Context, path, token, resource string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}

	a := fiber.Get(r.baseURL + path)
	a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	a.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if r.timeout > 0 {
		a.Timeout(r.timeout)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("failed to fetch %s: %w", resource, errs[0])
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("failed to fetch %s: %w", resource, &StatusError{Code: code, Detail: errorDetail(body)})
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to fetch %s: %w: %v", resource, repository.ErrMalformedPayload, err)
	}
	return nil
}

// errorDetail mengambil field "detail" dari body error backend kalau ada
func errorDetail(body []byte) string {
	var e struct {
		Detail interface{} `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Detail == nil {
		return ""
	}
	if s, ok := e.Detail.(string); ok {
		return s
	}
	raw, _ := json.Marshal(e.Detail)
	return string(raw)
}
