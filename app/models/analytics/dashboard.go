package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardStats adalah counter ringkasan dari /analytics/dashboard-stats
type DashboardStats struct {
	TotalStudents int `json:"total_students"`
	TotalTeachers int `json:"total_teachers"`
	TotalClasses  int `json:"total_classes"`
}

// StudentCountByMajor adalah jumlah siswa per jurusan, dipecah per tingkat kelas
type StudentCountByMajor struct {
	MajorAbbreviation string `json:"major_abbreviation"`
	MajorName         string `json:"major_name"`
	Grade10Count      int    `json:"grade_10_count"`
	Grade11Count      int    `json:"grade_11_count"`
	Grade12Count      int    `json:"grade_12_count"`
}

type StudentGrowth struct {
	Year         int `json:"year"`
	StudentCount int `json:"student_count"`
}

type BrowserUsage struct {
	BrowserName string  `json:"browser_name"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

type UserData struct {
	FullName  string   `json:"full_name"`
	UserRoles []string `json:"user_roles"`
}

type DeviceInfo struct {
	DeviceType  string `json:"device_type"`
	OSName      string `json:"os_name"`
	BrowserName string `json:"browser_name"`
}

type ActivityLog struct {
	ID         string     `json:"_id"`
	CreatedAt  Timestamp  `json:"created_at"`
	IPAddress  string     `json:"ip_address"`
	UserData   UserData   `json:"user_data"`
	DeviceInfo DeviceInfo `json:"device_info"`
}

// PrimaryRole mengembalikan role pertama, string kosong kalau user tidak punya role
func (a ActivityLog) PrimaryRole() string {
	if len(a.UserData.UserRoles) == 0 {
		return ""
	}
	return a.UserData.UserRoles[0]
}

// ViewSnapshot adalah hasil satu siklus fetch. Tidak pernah diubah setelah dipublish,
// siklus berikutnya menggantinya secara utuh.
type ViewSnapshot struct {
	ID                  uuid.UUID             `json:"id"`
	Identity            string                `json:"-"`
	FetchedAt           time.Time             `json:"fetched_at"`
	Stats               DashboardStats        `json:"stats"`
	MajorDistribution   []StudentCountByMajor `json:"major_distribution"`
	GrowthSeries        []StudentGrowth       `json:"growth_series"`
	BrowserDistribution []BrowserUsage        `json:"browser_distribution"`
	RecentActivity      []ActivityLog         `json:"recent_activity"`
}
