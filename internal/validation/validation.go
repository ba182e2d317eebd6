// Package validation registers the domain enum tags with gin's validator and
// turns binding failures into readable messages.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/responsehub/backend/internal/models"
)

var registerOnce sync.Once

// Register adds the custom tags to gin's default validator. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		err = RegisterTags(v)
	})
	return err
}

// RegisterTags adds the domain tags to v.
func RegisterTags(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"role": func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).Valid()
		},
		"severity": func(fl validator.FieldLevel) bool {
			return models.IncidentSeverity(fl.Field().String()).Valid()
		},
		"incident_status": func(fl validator.FieldLevel) bool {
			return models.IncidentStatus(fl.Field().String()).Valid()
		},
		"volunteer_status": func(fl validator.FieldLevel) bool {
			return models.VolunteerStatus(fl.Field().String()).Valid()
		},
		"assignment_status": func(fl validator.FieldLevel) bool {
			return models.AssignmentStatus(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// Message flattens a binding error into one line. Non-validation errors, such
// as malformed JSON, are reported as-is.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "role", "severity", "incident_status", "volunteer_status", "assignment_status":
		return fmt.Sprintf("%s has invalid value %q", field, fe.Value())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
