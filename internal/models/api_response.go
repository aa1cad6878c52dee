package models

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type UploadResponse struct {
	TaskID   string `json:"task_id"`
	Filename string `json:"filename"`
}

type StatusResponse struct {
	Status string          `json:"status"`
	Result *ProcessedImage `json:"result"`
}
