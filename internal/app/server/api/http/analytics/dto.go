package analytics

type recordInput struct {
	Body recordRequest
}

type recordRequest struct {
	Event  string            `json:"event" doc:"Имя события" minLength:"1"`
	Fields map[string]string `json:"fields,omitempty" doc:"Произвольные атрибуты события"`
}

type recordOutput struct {
	Body recordResponse
}

type recordResponse struct {
	Status string `json:"status"`
}
