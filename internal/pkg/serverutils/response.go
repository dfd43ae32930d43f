package serverutils

import "notekeeper-be/internal/pkg/apperror"

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

func Error(msg string, fields ...apperror.FieldError) ErrorResponse {
	return ErrorResponse{Message: msg, Errors: fields}
}
