package model

import (
	"strconv"
	"time"
)

// Video lifecycle states.
const (
	StatusPending    = "pending"
	StatusUploading  = "uploading"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusDeleted    = "deleted"
)

type Video struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Title       string `gorm:"column:title;size:200;not null;index" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`

	Filename         string `gorm:"column:filename;size:255;not null" json:"filename"`
	OriginalFilename string `gorm:"column:original_filename;size:255;not null" json:"original_filename"`

	FilePath      string `gorm:"column:file_path;size:500;not null" json:"file_path"`
	FileSize      int64  `gorm:"column:file_size;not null" json:"file_size"`
	FileType      string `gorm:"column:file_type;size:50;not null" json:"file_type"`
	FileExtension string `gorm:"column:file_extension;size:10;not null" json:"file_extension"`

	Duration   float64 `gorm:"column:duration" json:"duration,omitempty"`
	Width      int     `gorm:"column:width" json:"width,omitempty"`
	Height     int     `gorm:"column:height" json:"height,omitempty"`
	FPS        float64 `gorm:"column:fps" json:"fps,omitempty"`
	FrameCount int     `gorm:"column:frame_count" json:"frame_count,omitempty"`
	Codec      string  `gorm:"column:codec;size:50" json:"codec,omitempty"`

	Status             string `gorm:"column:status;size:20;not null;index;default:pending" json:"status"`
	ProcessingProgress int    `gorm:"column:processing_progress;default:0" json:"processing_progress"`
	ErrorMessage       string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	ThumbnailPath string `gorm:"column:thumbnail_path;size:500" json:"thumbnail_path,omitempty"`

	ViewCount int64 `gorm:"column:view_count;default:0" json:"view_count"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UploadedAt  *time.Time `gorm:"column:uploaded_at" json:"uploaded_at,omitempty"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at,omitempty"`
}

// TableName returns the database table name.
func (Video) TableName() string {
	return "video"
}

// IsReady reports whether the video can be streamed.
func (v *Video) IsReady() bool {
	return v.Status == StatusCompleted
}

// Resolution returns "WxH" or empty when metadata is missing.
func (v *Video) Resolution() string {
	if v.Width > 0 && v.Height > 0 {
		return strconv.Itoa(v.Width) + "x" + strconv.Itoa(v.Height)
	}
	return ""
}
