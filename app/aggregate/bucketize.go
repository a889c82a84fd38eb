package aggregate

import models "school-analytics-dashboard/app/models/analytics"

const (
	OtherLabel   = "Other"
	LainnyaLabel = "Lainnya"
)

// Bucketize menyimpan `limit` record pertama dan menggabungkan sisanya ke satu record "Other".
// Input harus sudah terurut menurun berdasarkan Count, fungsi ini tidak mengurutkan.
func Bucketize(records []models.CategoryRecord, limit int) []models.CategoryRecord {
	return BucketizeAs(records, limit, OtherLabel)
}

// BucketizeAs sama dengan Bucketize tapi label record sisa bisa diganti (misal "Lainnya").
// Limit <= 0 berarti tanpa bucketing.
func BucketizeAs(records []models.CategoryRecord, limit int, otherLabel string) []models.CategoryRecord {
	if limit <= 0 || len(records) <= limit {
		return append([]models.CategoryRecord(nil), records...)
	}

	out := make([]models.CategoryRecord, 0, limit+1)
	out = append(out, records[:limit]...)

	other := models.CategoryRecord{Label: otherLabel}
	for _, r := range records[limit:] {
		other.Count += r.Count
		other.Percentage += r.Percentage
	}

	// bucket kosong tidak ditampilkan
	if other.Count > 0 {
		out = append(out, other)
	}
	return out
}
