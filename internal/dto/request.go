package dto

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Filename    string `json:"filename" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
	FileType    string `json:"file_type"`
}

type VideoListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status"`
	Search   string `form:"search"`
}

type ProgressUpdateRequest struct {
	SessionID   string  `json:"session_id" binding:"required"`
	CurrentTime float64 `json:"current_time" binding:"gte=0"`
	UserID      string  `json:"user_id"`
}
