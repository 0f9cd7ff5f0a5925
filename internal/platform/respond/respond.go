// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// Every response shares one envelope: {success, message, data} on success and
// {success: false, error, code, details} on failure.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
)

// SuccessEnvelope is the JSON envelope for successful responses.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Success   bool                `json:"success"`
	Error     string              `json:"error"`
	Code      string              `json:"code"`
	Retryable bool                `json:"retryable,omitempty"`
	Details   []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 with data and a status message.
func OK(writer http.ResponseWriter, data any, message string) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 with data and a status message.
func Created(writer http.ResponseWriter, data any, message string) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Success: true, Message: message, Data: data})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed", slog.String("error", err.Error()))
		appError = apperr.Internal(err)
	}

	// Causes are logged, never returned.
	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:     appError.Message,
		Code:      appError.Code,
		Retryable: appError.Retryable,
		Details:   appError.Details,
	})
}
