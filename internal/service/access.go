package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// authorize re-checks the access gate at the service boundary.
func authorize(principal *models.JWTClaims, action models.Action) error {
	if principal == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if !principal.Role.Allows(action) {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s may not perform %s", principal.Role, action))
	}
	return nil
}

// internalError logs a store or infrastructure failure and hides it behind INTERNAL_ERROR.
func internalError(logger *zap.Logger, err error, message string, fields ...zap.Field) error {
	logger.Error(message, append(fields, zap.Error(err))...)
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
