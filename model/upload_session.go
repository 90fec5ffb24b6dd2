package model

import "time"

type UploadSession struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	VideoID string `gorm:"column:video_id;size:36;not null;index" json:"video_id"`
	Video   Video  `gorm:"foreignKey:VideoID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	SessionToken string `gorm:"column:session_token;size:64;uniqueIndex;not null" json:"session_token"`

	ChunkSize     int64   `gorm:"column:chunk_size;not null;default:8192" json:"chunk_size"`
	BytesUploaded int64   `gorm:"column:bytes_uploaded;default:0" json:"bytes_uploaded"`
	Progress      float64 `gorm:"column:upload_progress;default:0" json:"upload_progress"`
	UploadSpeed   float64 `gorm:"column:upload_speed" json:"upload_speed,omitempty"`

	Status       string `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// TableName returns the database table name.
func (UploadSession) TableName() string {
	return "upload_session"
}

// IsActive reports whether the session still owns the upload slot.
func (s *UploadSession) IsActive() bool {
	return s.Status == StatusPending || s.Status == StatusUploading
}
