package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-analytics-dashboard/app/aggregate"
	models "school-analytics-dashboard/app/models/analytics"
	service "school-analytics-dashboard/app/service/dashboard"
)

func renderFixture(t *testing.T) (*service.Renderer, *models.ViewSnapshot, time.Time) {
	t.Helper()
	renderer, err := service.NewRenderer(6, 5, 8)
	require.NoError(t, err)

	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	snap := &models.ViewSnapshot{
		ID:                  uuid.New(),
		FetchedAt:           now,
		Stats:               dummyStats,
		MajorDistribution:   dummyMajors,
		GrowthSeries:        dummyGrowth,
		BrowserDistribution: dummyBrowsers,
		RecentActivity: []models.ActivityLog{
			{
				ID:         "log-1",
				CreatedAt:  models.Timestamp{Time: now.Add(-3 * time.Minute)},
				UserData:   models.UserData{FullName: "Budi Santoso", UserRoles: []string{"teacher", "admin"}},
				DeviceInfo: models.DeviceInfo{DeviceType: "Mobile", OSName: "Android", BrowserName: "Chrome"},
			},
			{
				ID:         "log-2",
				UserData:   models.UserData{FullName: "Tanpa Role"},
				DeviceInfo: models.DeviceInfo{DeviceType: "Desktop", OSName: "Windows", BrowserName: "Edge"},
			},
		},
	}
	return renderer, snap, now
}

func TestRender(t *testing.T) {
	t.Run("Success: full snapshot", func(t *testing.T) {
		renderer, snap, now := renderFixture(t)

		view := renderer.Render(service.State{Snapshot: snap, OnlineUsers: 11}, aggregate.Indonesian, now)

		assert.False(t, view.Loading)
		assert.Equal(t, snap.ID.String(), view.SnapshotID)
		require.Len(t, view.Cards, 4)
		assert.Equal(t, "Total Siswa", view.Cards[0].Title)
		assert.Equal(t, 320, view.Cards[0].Value)
		assert.Equal(t, 11, view.Cards[2].Value)
		assert.Equal(t, 12, view.Cards[3].Value)

		// jurusan
		require.Len(t, view.Majors.Datasets, 2)
		assert.Equal(t, [3]string{"Kelas 10", "Kelas 11", "Kelas 12"}, view.Majors.Labels)
		assert.Equal(t, "#3B82F6", view.Majors.Datasets[0].Color)
		assert.Equal(t, "#6B7280", view.Majors.Datasets[1].Color)
		assert.Equal(t, [3]int{40, 35, 30}, view.Majors.Datasets[0].Data)

		// pertumbuhan: tahun dengan nilai 0 dibuang
		assert.Len(t, view.Growth.AllYears, 3)
		require.Len(t, view.Growth.Points, 2)
		assert.Equal(t, 72, view.Growth.AxisMax)
		assert.Equal(t, 20, view.Growth.TotalGrowth)
		assert.Equal(t, 20, view.Growth.YearlyGrowth)
		assert.Equal(t, 2022, view.Growth.FromYear)
		assert.Equal(t, 2023, view.Growth.ToYear)
		assert.Equal(t, 60, view.Growth.Current)
		assert.True(t, view.Growth.HasPrevious)

		// browser: 6 teratas + Lainnya
		require.Len(t, view.Browsers.Slices, 7)
		other := view.Browsers.Slices[6]
		assert.Equal(t, "Lainnya", other.Name)
		assert.Equal(t, 5, other.Count)
		assert.InDelta(t, 5.0, other.Percentage, 1e-9)
		assert.Equal(t, "#6B7280", other.Color)
		assert.True(t, other.ShowLabel)
		assert.Equal(t, 100, view.Browsers.TotalUsers)
		require.NotNil(t, view.Browsers.Top)
		assert.Equal(t, "Chrome", view.Browsers.Top.Name)
		assert.Equal(t, "#4285F4", view.Browsers.Top.Color)

		// aktivitas
		require.Len(t, view.Activities, 2)
		first := view.Activities[0]
		assert.Equal(t, "teacher", first.Role)
		assert.Equal(t, "green", first.RoleColor)
		assert.Equal(t, "3 menit yang lalu", first.TimeLabel)
		assert.Equal(t, "Login berhasil dari Android", first.Description)
		assert.Equal(t, "mobile", first.DeviceKind)

		second := view.Activities[1]
		assert.Equal(t, "", second.Role)
		assert.Equal(t, "gray", second.RoleColor)
		assert.Equal(t, "", second.TimeLabel)
		assert.Equal(t, "desktop", second.DeviceKind)
	})

	t.Run("Success: english locale", func(t *testing.T) {
		renderer, snap, now := renderFixture(t)

		view := renderer.Render(service.State{Snapshot: snap}, aggregate.English, now)

		assert.Equal(t, "Other", view.Browsers.Slices[6].Name)
		assert.Equal(t, "3 minutes ago", view.Activities[0].TimeLabel)
		assert.Equal(t, "Total Students", view.Cards[0].Title)
	})

	t.Run("Success: no snapshot yet", func(t *testing.T) {
		renderer, _, now := renderFixture(t)

		view := renderer.Render(service.State{Loading: true, OnlineUsers: 2}, aggregate.Indonesian, now)

		assert.True(t, view.Loading)
		assert.Empty(t, view.SnapshotID)
		assert.Nil(t, view.FetchedAt)
		assert.Equal(t, 0, view.Cards[0].Value)
		assert.Equal(t, 2, view.Cards[2].Value)
		assert.Equal(t, aggregate.DefaultAxisBound, view.Growth.AxisMax)
		assert.Empty(t, view.Browsers.Slices)
		assert.Nil(t, view.Browsers.Top)
		assert.NotNil(t, view.Activities)
		assert.Empty(t, view.Activities)
	})

	t.Run("Success: charts are cached per snapshot", func(t *testing.T) {
		renderer, snap, now := renderFixture(t)

		first := renderer.Render(service.State{Snapshot: snap}, aggregate.Indonesian, now)
		altered := *snap
		altered.BrowserDistribution = nil
		second := renderer.Render(service.State{Snapshot: &altered}, aggregate.Indonesian, now)

		assert.Equal(t, first.Browsers, second.Browsers)

		altered.ID = uuid.New()
		third := renderer.Render(service.State{Snapshot: &altered}, aggregate.Indonesian, now)
		assert.Empty(t, third.Browsers.Slices)
	})

	t.Run("Success: error is surfaced", func(t *testing.T) {
		renderer, snap, now := renderFixture(t)

		view := renderer.Render(service.State{Snapshot: snap, Err: assert.AnError}, aggregate.Indonesian, now)

		assert.Equal(t, assert.AnError.Error(), view.Error)
		assert.Equal(t, snap.ID.String(), view.SnapshotID)
	})
}

func TestBrowserColor(t *testing.T) {
	assert.Equal(t, "#FF7139", service.BrowserColor("Firefox"))
	assert.Equal(t, "hsl(136, 70%, 50%)", service.BrowserColor("Brave"))
	assert.Equal(t, "hsl(0, 70%, 50%)", service.BrowserColor(""))
}
