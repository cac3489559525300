package main

type ErrorResponse struct {
	Request   string `json:"request"`
	Error     any    `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func NewErrorResponse(request string, error any, request_id string) ErrorResponse {
	return ErrorResponse{
		Request:   request,
		Error:     error,
		RequestID: request_id,
	}
}
