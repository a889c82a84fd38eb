package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	models "school-analytics-dashboard/app/models/analytics"
	"school-analytics-dashboard/app/repository"
)

// default jendela tahun kalau caller tidak meminta jumlah tahun tertentu
const defaultGrowthYears = 5

type analyticsRepoPostgres struct {
	db *sql.DB
	// kalau tidak kosong, hanya jurusan ini yang dihitung
	majors []string
}

// NewAnalyticsRepoPostgres membaca counter, distribusi jurusan dan pertumbuhan siswa langsung dari database sekolah
func NewAnalyticsRepoPostgres(db *sql.DB, majors []string) repository.CountsRepository {
	return &analyticsRepoPostgres{db: db, majors: majors}
}

func (r *analyticsRepoPostgres) GetDashboardStats(ctx context.Context, _ string) (models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM students WHERE is_active),
			(SELECT COUNT(*) FROM teachers WHERE is_active),
			(SELECT COUNT(*) FROM classes)
	`
	var stats models.DashboardStats
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalStudents, &stats.TotalTeachers, &stats.TotalClasses)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}
	return stats, nil
}

func (r *analyticsRepoPostgres) GetStudentCountByMajor(ctx context.Context, _ string) ([]models.StudentCountByMajor, error) {
	query := `
		SELECT m.abbreviation, m.name,
			COUNT(s.id) FILTER (WHERE s.grade_level = 10),
			COUNT(s.id) FILTER (WHERE s.grade_level = 11),
			COUNT(s.id) FILTER (WHERE s.grade_level = 12)
		FROM majors m
		LEFT JOIN students s ON s.major_id = m.id AND s.is_active
	`
	var args []interface{}
	if len(r.majors) > 0 {
		query += ` WHERE m.abbreviation = ANY($1)`
		args = append(args, pq.Array(r.majors))
	}
	query += ` GROUP BY m.id, m.abbreviation, m.name ORDER BY m.abbreviation`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student count by major: %w", err)
	}
	defer rows.Close()

	results := []models.StudentCountByMajor{}
	for rows.Next() {
		var m models.StudentCountByMajor
		if err := rows.Scan(&m.MajorAbbreviation, &m.MajorName, &m.Grade10Count, &m.Grade11Count, &m.Grade12Count); err != nil {
			return nil, fmt.Errorf("failed to fetch student count by major: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// GetStudentGrowth mengembalikan satu baris per tahun, termasuk tahun tanpa siswa baru (count 0)
func (r *analyticsRepoPostgres) GetStudentGrowth(ctx context.Context, _ string, years int) ([]models.StudentGrowth, error) {
	if years <= 0 {
		years = defaultGrowthYears
	}

	query := `
		SELECT y.year, COUNT(s.id)
		FROM generate_series(
			EXTRACT(YEAR FROM NOW())::int - $1 + 1,
			EXTRACT(YEAR FROM NOW())::int
		) AS y(year)
		LEFT JOIN students s ON s.enrollment_year = y.year
		GROUP BY y.year
		ORDER BY y.year
	`
	rows, err := r.db.QueryContext(ctx, query, years)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student growth: %w", err)
	}
	defer rows.Close()

	results := []models.StudentGrowth{}
	for rows.Next() {
		var g models.StudentGrowth
		if err := rows.Scan(&g.Year, &g.StudentCount); err != nil {
			return nil, fmt.Errorf("failed to fetch student growth: %w", err)
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
