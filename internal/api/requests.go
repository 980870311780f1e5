// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package api provides HTTP request structs with go-playground/validator tags.
// These structs validate incoming request bodies and query parameters before
// anything reaches the engine, so malformed input is rejected with field-level
// detail instead of a bare 400.
package api

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Validator instances cache
// struct metadata, so a single instance is both cheaper and safe for
// concurrent use.
var validate = validator.New()

// ActionRequest is the request body for POST /api/v1/actions.
//
// Fields:
//   - UserID: Required opaque user identifier
//   - CandidateID: Required positive catalog identifier
//   - Kind: Swipe classification (like, pass, unwatched)
//   - Genres: Genre set of the title at swipe time
//   - Language: Optional ISO 639-1 original language code
type ActionRequest struct {
	UserID      string   `json:"user_id" validate:"required,min=1,max=128"`
	CandidateID int      `json:"candidate_id" validate:"required,min=1"`
	Kind        string   `json:"kind" validate:"required,oneof=like pass unwatched"`
	Genres      []string `json:"genres" validate:"omitempty,max=20,dive,min=1,max=64"`
	Language    string   `json:"language" validate:"omitempty,len=2,lowercase"`
}

// RecommendationsRequest holds the validated query parameters for
// GET /api/v1/recommendations/{userID}.
//
// Fields:
//   - UserID: Required path parameter
//   - Limit: Deck size (0 selects the configured default)
//   - DiscoveryRatio: Fraction of the deck reserved for discovery picks
type RecommendationsRequest struct {
	UserID         string  `validate:"required,min=1,max=128"`
	Limit          int     `validate:"min=0,max=500"`
	DiscoveryRatio float64 `validate:"min=0,max=1"`
}

// PreferencesRequest is the request body for
// PUT /api/v1/users/{userID}/preferences. Declared preferences seed the
// cold-start path until enough swipes accumulate.
type PreferencesRequest struct {
	Genres    []string `json:"genres" validate:"omitempty,max=20,dive,min=1,max=64"`
	Languages []string `json:"languages" validate:"omitempty,max=10,dive,len=2,lowercase"`
}

// SimilarityRequest holds the validated query parameters for
// GET /api/v1/similarity.
type SimilarityRequest struct {
	UserA string `validate:"required,min=1,max=128"`
	UserB string `validate:"required,min=1,max=128"`
}

// fieldError is one entry in the details payload of a validation failure.
type fieldError struct {
	Field  string `json:"field"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil when validation passes, or a slice of field-level errors
// suitable for the details payload of a VALIDATION_FAILED response.
func validateRequest(v interface{}) []fieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns this type directly
	if !ok {
		return []fieldError{{Field: "request", Rule: "struct", Reason: err.Error()}}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{
			Field:  strings.ToLower(fe.Field()),
			Rule:   fe.Tag(),
			Reason: reasonFor(fe),
		})
	}
	return out
}

// reasonFor renders a human-readable reason for one failed constraint.
func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "below minimum " + fe.Param()
	case "max":
		return "above maximum " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "lowercase":
		return "must be lowercase"
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}
