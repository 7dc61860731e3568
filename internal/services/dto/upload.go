package dto

import "mime/multipart"

// ImageUploadRequest - загрузка изображения из админки
type ImageUploadRequest struct {
	// Target - тип загрузки из маршрута (image, blog-image, ...)
	Target string
	File   *multipart.FileHeader
}

type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Resized     bool   `json:"resized"`
}

type UploadListQuery struct {
	Target string `form:"target" validate:"omitempty,max=40"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type UploadRecordResponse struct {
	ID           string `json:"id"`
	Target       string `json:"target"`
	Key          string `json:"key"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	Resized      bool   `json:"resized"`
	CreatedAt    string `json:"createdAt"`
}

type UploadListResponse struct {
	Uploads []*UploadRecordResponse `json:"uploads"`
	PageMeta
}
