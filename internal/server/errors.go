package server

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/taskboard/backend/internal/service"
)

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func toHumaError(err error) error {
	code := service.CodeOf(err)
	msg := service.MessageOf(err)
	switch code {
	case service.CodeConflict:
		return huma.Error409Conflict(msg)
	case service.CodeNotFound:
		return huma.Error404NotFound(msg)
	case service.CodeForbidden:
		return huma.Error403Forbidden(msg)
	case service.CodeValidation, service.CodeInvalidRelation, service.CodeInvalidState:
		return huma.Error400BadRequest(msg)
	default:
		return huma.Error500InternalServerError(msg)
	}
}
