package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mssola/user_agent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "school-analytics-dashboard/app/models/analytics"
	mongoModels "school-analytics-dashboard/app/models/mongodb"
	"school-analytics-dashboard/app/repository"
)

const activityCollection = "activity_logs"

type activityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository membaca log login dan statistik browser dari MongoDB
func NewActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &activityRepository{collection: db.Collection(activityCollection)}
}

func (r *activityRepository) GetActivityLogs(ctx context.Context, _ string, limit int) ([]models.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoModels.ActivityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to fetch activity logs: %w", err)
	}

	logs := make([]models.ActivityLog, 0, len(docs))
	for _, d := range docs {
		logs = append(logs, toActivityLog(d))
	}
	return logs, nil
}

// GetBrowserUsage menghitung jumlah login per browser, terurut menurun.
// Dokumen tanpa device_info.browser_name dikelompokkan per user agent lalu
// di-resolve dengan DeviceFromUserAgent, sama seperti GetActivityLogs.
func (r *activityRepository) GetBrowserUsage(ctx context.Context, _ string) ([]models.BrowserUsage, error) {
	browser := bson.D{{Key: "$ifNull", Value: bson.A{"$device_info.browser_name", ""}}}
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "browser", Value: browser},
			{Key: "ua", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{browser, ""}}},
				bson.D{{Key: "$ifNull", Value: bson.A{"$user_agent", ""}}},
				"",
			}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "browser", Value: "$browser"}, {Key: "ua", Value: "$ua"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch browser usage: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []mongoModels.BrowserCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to fetch browser usage: %w", err)
	}
	return browserUsage(rows), nil
}

// browserUsage menggabungkan baris per browser/user agent jadi distribusi per nama browser
func browserUsage(rows []mongoModels.BrowserCount) []models.BrowserUsage {
	counts := make(map[string]int)
	total := 0
	for _, row := range rows {
		name := row.Key.Browser
		if name == "" && row.Key.UserAgent != "" {
			name = DeviceFromUserAgent(row.Key.UserAgent).BrowserName
		}
		if name == "" {
			name = "Unknown"
		}
		counts[name] += row.Count
		total += row.Count
	}

	usage := make([]models.BrowserUsage, 0, len(counts))
	for name, count := range counts {
		u := models.BrowserUsage{BrowserName: name, Count: count}
		if total > 0 {
			u.Percentage = float64(count) * 100 / float64(total)
		}
		usage = append(usage, u)
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].BrowserName < usage[j].BrowserName
	})
	return usage
}

func toActivityLog(d mongoModels.ActivityDocument) models.ActivityLog {
	log := models.ActivityLog{
		ID:        d.ID.Hex(),
		CreatedAt: models.Timestamp{Time: d.CreatedAt},
		IPAddress: d.IPAddress,
		UserData: models.UserData{
			FullName:  d.UserData.FullName,
			UserRoles: d.UserData.UserRoles,
		},
		DeviceInfo: models.DeviceInfo{
			DeviceType:  d.DeviceInfo.DeviceType,
			OSName:      d.DeviceInfo.OSName,
			BrowserName: d.DeviceInfo.BrowserName,
		},
	}
	if log.UserData.UserRoles == nil {
		log.UserData.UserRoles = []string{}
	}

	// log lama belum menyimpan device_info, isi dari user agent mentah
	if d.UserAgent != "" {
		parsed := DeviceFromUserAgent(d.UserAgent)
		if log.DeviceInfo.DeviceType == "" {
			log.DeviceInfo.DeviceType = parsed.DeviceType
		}
		if log.DeviceInfo.OSName == "" {
			log.DeviceInfo.OSName = parsed.OSName
		}
		if log.DeviceInfo.BrowserName == "" {
			log.DeviceInfo.BrowserName = parsed.BrowserName
		}
	}
	return log
}

// DeviceFromUserAgent menurunkan device_info dari string User-Agent
func DeviceFromUserAgent(raw string) models.DeviceInfo {
	ua := user_agent.New(raw)
	browser, _ := ua.Browser()

	device := "desktop"
	switch {
	case strings.Contains(raw, "iPad") || strings.Contains(raw, "Tablet"):
		device = "tablet"
	case ua.Mobile():
		device = "mobile"
	}

	return models.DeviceInfo{
		DeviceType:  device,
		OSName:      ua.OS(),
		BrowserName: browser,
	}
}
