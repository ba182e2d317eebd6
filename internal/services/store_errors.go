package services

import (
	"errors"
	"fmt"

	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/repository"
)

// notFoundAs turns a repository miss into a NotFound service error and leaves
// every other error untouched.
func notFoundAs(err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(message)
	}
	return err
}

// internalError logs unexpected store failures and wraps them. Service errors
// pass through unchanged.
func internalError(err error, component, action string) error {
	if _, ok := AsServiceError(err); ok {
		return err
	}
	logger.WithError(err, component).Error("Failed to " + action)
	return fmt.Errorf("failed to %s: %w", action, err)
}
