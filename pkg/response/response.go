// Package response defines the JSON envelope every API handler replies with.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body: {success, message, data?, errors?}.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Paginated is the envelope for list endpoints.
type Paginated struct {
	Success    bool `json:"success"`
	Data       any  `json:"data"`
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
}

// OK writes a success envelope with the given status code.
func OK(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(c echo.Context, message string, data any) error {
	return OK(c, http.StatusCreated, message, data)
}

// Error writes a failure envelope with the given status code.
func Error(c echo.Context, code int, message string, errs ...string) error {
	return c.JSON(code, Envelope{Success: false, Message: message, Errors: errs})
}

// List writes a paginated success envelope.
func List(c echo.Context, data any, total, page, pageSize int) error {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return c.JSON(http.StatusOK, Paginated{
		Success:    true,
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
