// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared so struct metadata is cached once.
// Fields are reported by their JSON name, and the custom "destination" tag
// accepts 2 to 8 character alphanumeric codes such as "CDG" or "NYC".
//
//	type PreloadRequest struct {
//	    Destinations []string `json:"destinations" validate:"required,min=1,max=20,dive,destination"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // 400 with code VALIDATION_ERROR, message verr.Error(), details verr.Details()
//	}
package validation
