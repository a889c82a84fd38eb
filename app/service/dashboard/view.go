package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"school-analytics-dashboard/app/aggregate"
	models "school-analytics-dashboard/app/models/analytics"
)

const (
	otherBucketColor = "#6B7280"
	// label persentase di pie chart disembunyikan di bawah nilai ini
	minLabelPercentage = 5
)

var browserColors = map[string]string{
	"Chrome":            "#4285F4",
	"Firefox":           "#FF7139",
	"Safari":            "#00D4FF",
	"Edge":              "#0078D4",
	"Opera":             "#FF1B2D",
	"Internet Explorer": "#1EBBEE",
	"Samsung Internet":  "#1428A0",
	"UC Browser":        "#FF6900",
}

var majorColors = map[string]string{
	"TKJ":  "#3B82F6",
	"TBSM": "#10B981",
	"TP":   "#F59E0B",
	"TKR":  "#EF4444",
}

var roleColors = map[string]string{
	"admin":   "red",
	"teacher": "green",
	"student": "blue",
}

type StatCard struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value int    `json:"value"`
}

type MajorDataset struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Data  [3]int `json:"data"`
	Color string `json:"color"`
}

type MajorChart struct {
	Labels   [3]string      `json:"labels"`
	Datasets []MajorDataset `json:"datasets"`
}

type GrowthChart struct {
	Points       []models.TimePoint `json:"points"`
	AllYears     []models.TimePoint `json:"all_years"`
	AxisMax      int                `json:"axis_max"`
	TotalGrowth  int                `json:"total_growth"`
	YearlyGrowth int                `json:"yearly_growth"`
	HasPrevious  bool               `json:"has_previous"`
	FromYear     int                `json:"from_year,omitempty"`
	ToYear       int                `json:"to_year,omitempty"`
	Current      int                `json:"current"`
}

type BrowserSlice struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
	ShowLabel  bool    `json:"show_label"`
}

type BrowserChart struct {
	Slices     []BrowserSlice `json:"slices"`
	TotalUsers int            `json:"total_users"`
	Top        *BrowserSlice  `json:"top,omitempty"`
}

type ActivityItem struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	RoleColor   string `json:"role_color"`
	Description string `json:"description"`
	TimeLabel   string `json:"time_label"`
	DeviceKind  string `json:"device_kind"`
	Browser     string `json:"browser"`
}

// DashboardView adalah bentuk akhir yang dikirim ke frontend
type DashboardView struct {
	SnapshotID  string         `json:"snapshot_id,omitempty"`
	FetchedAt   *time.Time     `json:"fetched_at,omitempty"`
	Loading     bool           `json:"loading"`
	Refreshing  bool           `json:"refreshing"`
	Error       string         `json:"error,omitempty"`
	OnlineUsers int            `json:"online_users"`
	Cards       []StatCard     `json:"cards"`
	Majors      MajorChart     `json:"majors"`
	Growth      GrowthChart    `json:"growth"`
	Browsers    BrowserChart   `json:"browsers"`
	Activities  []ActivityItem `json:"activities"`
}

type charts struct {
	majors   MajorChart
	growth   GrowthChart
	browsers BrowserChart
}

// Renderer mengubah State jadi DashboardView. Chart hanya bergantung pada snapshot,
// jadi disimpan di LRU dengan key ID snapshot + bahasa.
type Renderer struct {
	cache         *lru.Cache
	browserLimit  int
	activityLimit int
}

func NewRenderer(browserLimit, activityLimit, cacheSize int) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = 16
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	if activityLimit <= 0 {
		activityLimit = 5
	}
	return &Renderer{cache: cache, browserLimit: browserLimit, activityLimit: activityLimit}, nil
}

func (r *Renderer) Render(st State, loc aggregate.Locale, now time.Time) DashboardView {
	view := DashboardView{
		Loading:     st.Loading,
		Refreshing:  st.Refreshing,
		OnlineUsers: st.OnlineUsers,
		Activities:  []ActivityItem{},
	}
	if st.Err != nil {
		view.Error = st.Err.Error()
	}

	snap := st.Snapshot
	if snap == nil {
		snap = &models.ViewSnapshot{}
	} else {
		view.SnapshotID = snap.ID.String()
		fetched := snap.FetchedAt
		view.FetchedAt = &fetched
	}

	view.Cards = []StatCard{
		{Key: "total_students", Title: loc.Cards[0], Value: snap.Stats.TotalStudents},
		{Key: "total_teachers", Title: loc.Cards[1], Value: snap.Stats.TotalTeachers},
		{Key: "online_users", Title: loc.Cards[2], Value: st.OnlineUsers},
		{Key: "total_classes", Title: loc.Cards[3], Value: snap.Stats.TotalClasses},
	}

	c := r.charts(snap, loc)
	view.Majors = c.majors
	view.Growth = c.growth
	view.Browsers = c.browsers

	for i, a := range snap.RecentActivity {
		if i == r.activityLimit {
			break
		}
		view.Activities = append(view.Activities, activityItem(a, loc, now))
	}
	return view
}

func (r *Renderer) charts(snap *models.ViewSnapshot, loc aggregate.Locale) charts {
	if snap.ID == uuid.Nil {
		return buildCharts(snap, loc, r.browserLimit)
	}

	key := snap.ID.String() + "/" + loc.Tag.String()
	if cached, ok := r.cache.Get(key); ok {
		return cached.(charts)
	}
	c := buildCharts(snap, loc, r.browserLimit)
	r.cache.Add(key, c)
	return c
}

func buildCharts(snap *models.ViewSnapshot, loc aggregate.Locale, browserLimit int) charts {
	return charts{
		majors:   majorChart(snap.MajorDistribution, loc),
		growth:   growthChart(snap.GrowthSeries),
		browsers: browserChart(snap.BrowserDistribution, loc, browserLimit),
	}
}

func majorChart(in []models.StudentCountByMajor, loc aggregate.Locale) MajorChart {
	chart := MajorChart{Labels: loc.Grades, Datasets: make([]MajorDataset, 0, len(in))}
	for _, m := range in {
		color, ok := majorColors[m.MajorAbbreviation]
		if !ok {
			color = otherBucketColor
		}
		chart.Datasets = append(chart.Datasets, MajorDataset{
			Label: m.MajorAbbreviation,
			Name:  m.MajorName,
			Data:  [3]int{m.Grade10Count, m.Grade11Count, m.Grade12Count},
			Color: color,
		})
	}
	return chart
}

func growthChart(in []models.StudentGrowth) GrowthChart {
	raw := models.GrowthPoints(in)
	summary := aggregate.Normalize(raw)

	chart := GrowthChart{
		Points:       summary.Filtered,
		AllYears:     raw,
		AxisMax:      summary.AxisBound,
		TotalGrowth:  summary.TotalDelta,
		YearlyGrowth: summary.LastDelta,
		HasPrevious:  len(summary.Filtered) > 1,
	}
	if n := len(summary.Filtered); n > 0 {
		chart.FromYear = summary.Filtered[0].Period
		chart.ToYear = summary.Filtered[n-1].Period
		chart.Current = summary.Filtered[n-1].Value
	}
	return chart
}

func browserChart(in []models.BrowserUsage, loc aggregate.Locale, limit int) BrowserChart {
	chart := BrowserChart{Slices: []BrowserSlice{}}
	for _, b := range in {
		chart.TotalUsers += b.Count
	}

	for _, rec := range aggregate.BucketizeAs(models.BrowserRecords(in), limit, loc.OtherLabel) {
		chart.Slices = append(chart.Slices, BrowserSlice{
			Name:       rec.Label,
			Count:      rec.Count,
			Percentage: rec.Percentage,
			Color:      sliceColor(rec.Label, loc),
			ShowLabel:  rec.Percentage >= minLabelPercentage,
		})
	}
	if len(chart.Slices) > 0 {
		top := chart.Slices[0]
		chart.Top = &top
	}
	return chart
}

func sliceColor(name string, loc aggregate.Locale) string {
	if name == loc.OtherLabel {
		return otherBucketColor
	}
	return BrowserColor(name)
}

// BrowserColor memberi warna tetap untuk browser yang dikenal, selain itu warna HSL dari hash nama
func BrowserColor(name string) string {
	if c, ok := browserColors[name]; ok {
		return c
	}
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", sum%360)
}

func activityItem(a models.ActivityLog, loc aggregate.Locale, now time.Time) ActivityItem {
	role := a.PrimaryRole()
	roleColor, ok := roleColors[role]
	if !ok {
		roleColor = "gray"
	}

	item := ActivityItem{
		ID:          a.ID,
		FullName:    a.UserData.FullName,
		Role:        role,
		RoleColor:   roleColor,
		Description: fmt.Sprintf(loc.LoginFrom, a.DeviceInfo.OSName),
		DeviceKind:  deviceKind(a.DeviceInfo.DeviceType),
		Browser:     a.DeviceInfo.BrowserName,
	}
	if !a.CreatedAt.IsZero() {
		item.TimeLabel = aggregate.Relative(a.CreatedAt.Time, now, loc)
	}
	return item
}

func deviceKind(deviceType string) string {
	switch strings.ToLower(deviceType) {
	case "mobile":
		return "mobile"
	case "tablet":
		return "tablet"
	default:
		return "desktop"
	}
}
