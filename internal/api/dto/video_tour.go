package dto

// VideoTourUploadDTO 上传表单字段
type VideoTourUploadDTO struct {
	ListingID string `form:"listing_id" binding:"required" validate:"min=1,max=64"`
	Title     string `form:"title" validate:"max=100"`
	Instagram string `form:"instagram" validate:"max=255"`
	Tiktok    string `form:"tiktok" validate:"max=255"`
	Youtube   string `form:"youtube" validate:"max=255"`
}

// VideoTourUpdateDTO 仅可变字段的局部更新
type VideoTourUpdateDTO struct {
	Title     *string `json:"title" validate:"omitempty,max=100"`
	Instagram *string `json:"instagram" validate:"omitempty,max=255"`
	Tiktok    *string `json:"tiktok" validate:"omitempty,max=255"`
	Youtube   *string `json:"youtube" validate:"omitempty,max=255"`
}

// VideoTourListDTO 列表查询参数
type VideoTourListDTO struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"pageSize,default=10"`
}

// UploadedFile 已落盘的上传文件描述
type UploadedFile struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

// VideoTourDTO 视频导览
type VideoTourDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	ListingID    string `json:"listing_id"`
	Filename     string `json:"filename"`
	ContentType  string `json:"content_type"`
	FileSize     int64  `json:"file_size"`
	StoragePath  string `json:"storage_path"`
	VideoURL     string `json:"video_url"`
	PreviewURL   string `json:"preview_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
	Instagram    string `json:"instagram"`
	Tiktok       string `json:"tiktok"`
	Youtube      string `json:"youtube"`
	UploadedAt   string `json:"uploaded_at"`
}

// PaginationDTO 分页信息
type PaginationDTO struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// VideoTourPageDTO 分页结果
type VideoTourPageDTO struct {
	Data       []*VideoTourDTO `json:"data"`
	Pagination PaginationDTO   `json:"pagination"`
}

// VideoCountDTO 用户视频数量
type VideoCountDTO struct {
	Count int64 `json:"count"`
}
