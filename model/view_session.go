package model

import "time"

type ViewSession struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	VideoID string `gorm:"column:video_id;size:36;not null;uniqueIndex:uk_video_session,priority:1" json:"video_id"`
	Video   Video  `gorm:"foreignKey:VideoID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	SessionID string `gorm:"column:session_id;size:255;not null;uniqueIndex:uk_video_session,priority:2" json:"session_id"`

	UserID    string `gorm:"column:user_id;size:36" json:"user_id,omitempty"`
	IPAddress string `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent string `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`

	CurrentTime          float64 `gorm:"column:current_time_s;default:0" json:"current_time"`
	WatchDuration        float64 `gorm:"column:watch_duration;default:0" json:"watch_duration"`
	CompletionPercentage float64 `gorm:"column:completion_percentage;default:0" json:"completion_percentage"`

	IsActive    bool `gorm:"column:is_active;default:true" json:"is_active"`
	IsCompleted bool `gorm:"column:is_completed;default:false" json:"is_completed"`

	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastAccessed time.Time `gorm:"column:last_accessed" json:"last_accessed"`
}

// TableName returns the database table name.
func (ViewSession) TableName() string {
	return "view_session"
}

// ResumePosition returns where playback should resume.
func (s *ViewSession) ResumePosition() float64 {
	return s.CurrentTime
}
