package repository

import (
	"context"
	"errors"

	models "school-analytics-dashboard/app/models/analytics"
)

// ErrMalformedPayload dipakai kalau bentuk JSON dari backend tidak sesuai
var ErrMalformedPayload = errors.New("malformed payload")

// DashboardRepository adalah lima resource analitik yang dibutuhkan dashboard.
// Token diteruskan ke backend, implementasi direct boleh mengabaikannya.
type DashboardRepository interface {
	CountsRepository
	ActivityRepository
}

type CountsRepository interface {
	GetDashboardStats(ctx context.Context, token string) (models.DashboardStats, error)
	GetStudentCountByMajor(ctx context.Context, token string) ([]models.StudentCountByMajor, error)
	GetStudentGrowth(ctx context.Context, token string, years int) ([]models.StudentGrowth, error)
}

type ActivityRepository interface {
	GetBrowserUsage(ctx context.Context, token string) ([]models.BrowserUsage, error)
	GetActivityLogs(ctx context.Context, token string, limit int) ([]models.ActivityLog, error)
}

type combinedRepository struct {
	CountsRepository
	ActivityRepository
}

// NewCombinedRepository menggabungkan sumber counter (PostgreSQL) dan sumber log (MongoDB)
func NewCombinedRepository(c CountsRepository, a ActivityRepository) DashboardRepository {
	return &combinedRepository{CountsRepository: c, ActivityRepository: a}
}
