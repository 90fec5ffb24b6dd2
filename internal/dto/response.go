package dto

import "StreamVault/model"

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

type UploadResponse struct {
	VideoID         string `json:"video_id"`
	UploadSessionID string `json:"upload_session_id"`
	SessionToken    string `json:"session_token"`
	Status          string `json:"status"`
}

type VideoListResponse struct {
	Videos   []model.Video `json:"videos"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type ProgressResponse struct {
	VideoID              string  `json:"video_id"`
	CurrentTime          float64 `json:"current_time"`
	CompletionPercentage float64 `json:"completion_percentage"`
	ResumePosition       float64 `json:"resume_position"`
	IsCompleted          bool    `json:"is_completed"`
}

type VideoStatsResponse struct {
	VideoID          string  `json:"video_id"`
	TotalViews       int     `json:"total_views"`
	UniqueViewers    int     `json:"unique_viewers"`
	TotalWatchTime   float64 `json:"total_watch_time"`
	AverageWatchTime float64 `json:"average_watch_time"`
	CompletionRate   float64 `json:"completion_rate"`
	Duration         float64 `json:"duration"`
	Resolution       string  `json:"resolution"`
	FileSize         int64   `json:"file_size"`
}
