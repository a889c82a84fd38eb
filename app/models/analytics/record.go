package models

// CategoryRecord adalah satu baris distribusi kategori (label, jumlah, persentase 0-100)
type CategoryRecord struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TimePoint adalah satu titik deret waktu, Period biasanya tahun
type TimePoint struct {
	Period int `json:"period"`
	Value  int `json:"value"`
}

func BrowserRecords(in []BrowserUsage) []CategoryRecord {
	out := make([]CategoryRecord, 0, len(in))
	for _, b := range in {
		out = append(out, CategoryRecord{Label: b.BrowserName, Count: b.Count, Percentage: b.Percentage})
	}
	return out
}

func GrowthPoints(in []StudentGrowth) []TimePoint {
	out := make([]TimePoint, 0, len(in))
	for _, g := range in {
		out = append(out, TimePoint{Period: g.Year, Value: g.StudentCount})
	}
	return out
}
