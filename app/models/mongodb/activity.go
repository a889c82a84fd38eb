package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityDocument adalah bentuk dokumen di koleksi activity_logs
type ActivityDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	CreatedAt  time.Time          `bson:"created_at"`
	IPAddress  string             `bson:"ip_address"`
	UserAgent  string             `bson:"user_agent,omitempty"`
	UserData   UserDataDocument   `bson:"user_data"`
	DeviceInfo DeviceDocument     `bson:"device_info"`
}

type UserDataDocument struct {
	FullName  string   `bson:"full_name"`
	UserRoles []string `bson:"user_roles"`
}

type DeviceDocument struct {
	DeviceType  string `bson:"device_type"`
	OSName      string `bson:"os_name"`
	BrowserName string `bson:"browser_name"`
}

// BrowserCount adalah satu baris hasil $group per browser. UserAgent hanya terisi
// untuk dokumen lama yang belum menyimpan device_info.browser_name.
type BrowserCount struct {
	Key struct {
		Browser   string `bson:"browser"`
		UserAgent string `bson:"ua"`
	} `bson:"_id"`
	Count int `bson:"count"`
}
