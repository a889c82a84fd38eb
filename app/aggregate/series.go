package aggregate

import models "school-analytics-dashboard/app/models/analytics"

// DefaultAxisBound dipakai kalau tidak ada titik bernilai > 0
const DefaultAxisBound = 10

type SeriesSummary struct {
	Filtered   []models.TimePoint `json:"filtered"`
	AxisBound  int                `json:"axis_bound"`
	TotalDelta int                `json:"total_delta"`
	LastDelta  int                `json:"last_delta"`
}

// Normalize membuang titik bernilai nol, lalu menghitung batas sumbu Y (max + 20%, dibulatkan ke atas)
// dan selisih pertama-terakhir serta dua titik terakhir. Slice input tidak diubah.
func Normalize(series []models.TimePoint) SeriesSummary {
	filtered := make([]models.TimePoint, 0, len(series))
	for _, p := range series {
		if p.Value > 0 {
			filtered = append(filtered, p)
		}
	}

	summary := SeriesSummary{Filtered: filtered, AxisBound: DefaultAxisBound}
	if len(filtered) == 0 {
		return summary
	}

	max := filtered[0].Value
	for _, p := range filtered[1:] {
		if p.Value > max {
			max = p.Value
		}
	}
	summary.AxisBound = ceilTimesSixFifths(max)

	if n := len(filtered); n > 1 {
		summary.TotalDelta = filtered[n-1].Value - filtered[0].Value
		summary.LastDelta = filtered[n-1].Value - filtered[n-2].Value
	}
	return summary
}

// ceil(v * 1.2) dengan aritmatika integer supaya tidak kena error pembulatan float
func ceilTimesSixFifths(v int) int {
	return (v*6 + 4) / 5
}
