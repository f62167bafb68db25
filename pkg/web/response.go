// Package web defines common components for a web application.
package web

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Response statuses shared by every endpoint.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response holds the common response type for all APIs.
type Response struct {
	Status string `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Error wraps a given err into json frinedly struct.
func Error(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}

// Success wraps data and a human readable detail message.
func Success(detail string, data any) Response {
	return Response{Status: StatusSuccess, Detail: detail, Data: data}
}

// GetErrorMsg returns a readable message for the failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return fmt.Sprintf(" must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf(" must be at most %s", fe.Param())
	case "category":
		return " is not supported"
	case "oneof":
		return fmt.Sprintf(" must be one of [%s]", fe.Param())
	}

	return " is invalid"
}

// BindingError converts a request binding error into a response naming the first invalid field.
func BindingError(err error) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		field := ve[0]
		return Response{Status: StatusError, Error: field.Field() + GetErrorMsg(field)}
	}

	return Error(err)
}
