package attachment

import "storeops/internal/domain/attachment"

type uploadInput struct {
	Body uploadRequest
}

type uploadRequest struct {
	FileName string `json:"file_name" doc:"Имя файла" minLength:"1"`
	Data     string `json:"data" doc:"Base64-encoded содержимое файла" minLength:"1"`
}

type uploadOutput struct {
	Body uploadResponse
}

type uploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url" doc:"Публичный URL вложения"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Attachments []attachment.Attachment `json:"attachments"`
}
