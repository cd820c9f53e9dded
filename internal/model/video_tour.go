package model

import (
	"time"
)

type VideoTour struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       string    `gorm:"type:varchar(64);not null;index:idx_user_id" json:"user_id"`
	ListingID    string    `gorm:"type:varchar(64);not null;index:idx_listing_id" json:"listing_id"`
	Filename     string    `gorm:"type:varchar(255);not null" json:"filename"`
	ContentType  string    `gorm:"type:varchar(64);not null" json:"content_type"` // e.g., video/mp4
	FileSize     int64     `gorm:"not null;default:0" json:"file_size"`
	StoragePath  string    `gorm:"type:varchar(255);not null" json:"storage_path"`
	VideoURL     string    `gorm:"type:varchar(512);not null" json:"video_url"`
	PreviewURL   string    `gorm:"type:varchar(512)" json:"preview_url"`
	ThumbnailURL string    `gorm:"type:varchar(512)" json:"thumbnail_url"`
	Title        string    `gorm:"type:varchar(100)" json:"title"`
	Instagram    string    `gorm:"type:varchar(255)" json:"instagram"`
	Tiktok       string    `gorm:"type:varchar(255)" json:"tiktok"`
	Youtube      string    `gorm:"type:varchar(255)" json:"youtube"`
	UploadedAt   time.Time `gorm:"not null;index:idx_uploaded_at" json:"uploaded_at"`
}

func (VideoTour) TableName() string {
	return "video_tours"
}
