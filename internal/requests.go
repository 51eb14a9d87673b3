package internal

type SendMessageRequest struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
