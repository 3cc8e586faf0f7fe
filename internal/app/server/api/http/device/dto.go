package device

type registerInput struct {
	Body registerRequest
}

type registerRequest struct {
	StoreID string `json:"store_id" doc:"Идентификатор магазина" minLength:"2"`
	PIN     string `json:"pin" doc:"PIN-код устройства" minLength:"4" maxLength:"12"`
}

type registerOutput struct {
	Body registerResponse
}

type registerResponse struct {
	Status string `json:"status"`
}

type loginInput struct {
	Body loginRequest
}

type loginRequest struct {
	StoreID string `json:"store_id" doc:"Идентификатор магазина" minLength:"1"`
	PIN     string `json:"pin" doc:"PIN-код устройства" minLength:"1"`
}

type loginOutput struct {
	Body loginResponse
}

type loginResponse struct {
	Token string `json:"token" doc:"Bearer-токен устройства"`
}
