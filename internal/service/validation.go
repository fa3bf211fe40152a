package service

import (
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/companies-api/internal/apperr"
)

const maxTextLength = 255

var (
	fieldValidator = validator.New()
	markupPolicy   = bluemonday.StrictPolicy()
)

// requireText trims value and rejects it when empty, too long or carrying markup.
func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if err := fieldValidator.Var(trimmed, "required"); err != nil {
		return "", apperr.InvalidArgument("%s must not be empty", field)
	}
	if err := fieldValidator.Var(trimmed, "max=255"); err != nil {
		return "", apperr.InvalidArgument("%s must be at most %d characters", field, maxTextLength)
	}
	if containsMarkup(trimmed) {
		return "", apperr.InvalidArgument("%s must not contain markup", field)
	}
	return trimmed, nil
}

// requirePositiveID rejects zero and negative identifiers.
func requirePositiveID(id int64) (uint, error) {
	if err := fieldValidator.Var(id, "gt=0"); err != nil {
		return 0, apperr.InvalidArgument("id must be a positive integer")
	}
	return uint(id), nil
}

// requireDepth rejects negative traversal depths.
func requireDepth(depth int) error {
	if err := fieldValidator.Var(depth, "gte=0"); err != nil {
		return apperr.InvalidArgument("max_depth must not be negative")
	}
	return nil
}

// validateStruct runs the validate tags of a request DTO.
func validateStruct(value interface{}) error {
	if err := fieldValidator.Struct(value); err != nil {
		return apperr.InvalidArgument("%s", describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "invalid request"
	}
	first := validationErrors[0]
	field := strings.ToLower(first.Field())
	switch first.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + first.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

func containsMarkup(value string) bool {
	return html.UnescapeString(markupPolicy.Sanitize(value)) != value
}
