// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package models

import (
	"time"
)

// APIResponse is the envelope used by every HTTP endpoint.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example success response:
//
//	{
//	  "status": "success",
//	  "data": [{"id": "cdg-eiffel-dusk", "kind": "photo", ...}],
//	  "metadata": {"timestamp": "2026-10-18T12:00:00Z", "query_time_ms": 12, "request_id": "..."}
//	}
type APIResponse struct {
	Status   string           `json:"status"`
	Data     interface{}      `json:"data"`
	Metadata ResponseMetadata `json:"metadata"`
	Error    *APIError        `json:"error,omitempty"`
}

// ResponseMetadata carries timing and correlation data for a response.
type ResponseMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is the structured error body.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PreloadRequest is the body of POST /api/v1/preload.
type PreloadRequest struct {
	Destinations []string `json:"destinations" validate:"required,min=1,max=20,dive,destination"`
}

// VisibleRequest is the body of POST /api/v1/stream/visible.
type VisibleRequest struct {
	URLs []string `json:"urls" validate:"max=500,dive,required,url"`
}
