package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/utils"
)

// Task bodies are decoded into a map so that a missing key, an explicit null
// and a value can be told apart on update.
type taskPayload map[string]any

func bindTaskPayload(c *gin.Context) (taskPayload, error) {
	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		return nil, apierrors.ErrInvalidBody
	}
	return payload, nil
}

// optionalString returns the value of key, whether the key was present, and
// an error when it holds something other than a string or null. A null value
// reads as "".
func (p taskPayload) optionalString(key string) (string, bool, error) {
	raw, ok := p[key]
	if !ok {
		return "", false, nil
	}
	switch v := raw.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, true, nil
	default:
		return "", true, apierrors.NewValidationError(fmt.Sprintf("Field '%s' must be a string", key))
	}
}

func (p taskPayload) stringOrEmpty(key string) (string, error) {
	v, _, err := p.optionalString(key)
	return v, err
}

func (p taskPayload) stringPtr(key string) (*string, error) {
	v, ok, err := p.optionalString(key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func (p taskPayload) tags() ([]string, bool, error) {
	raw, ok := p["tags"]
	if !ok {
		return nil, false, nil
	}
	tags, err := utils.NormalizeTags(raw)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTagHasSeparator):
			return nil, true, apierrors.NewValidationError("Tags must not contain commas")
		case errors.Is(err, utils.ErrTagsTooLong):
			return nil, true, apierrors.NewValidationError("Tags are too long")
		default:
			return nil, true, apierrors.NewValidationError("Tags must be a list of strings")
		}
	}
	return tags, true, nil
}

func (p taskPayload) createInput(userID uint64) (services.CreateTaskInput, error) {
	input := services.CreateTaskInput{UserID: userID}
	var err error

	fields := []struct {
		key string
		dst *string
	}{
		{"title", &input.Title},
		{"description", &input.Description},
		{"due_date", &input.DueDate},
		{"priority", &input.Priority},
		{"status", &input.Status},
		{"category", &input.Category},
	}
	for _, f := range fields {
		if *f.dst, err = p.stringOrEmpty(f.key); err != nil {
			return input, err
		}
	}

	if input.Tags, _, err = p.tags(); err != nil {
		return input, err
	}
	return input, nil
}

func (p taskPayload) updateInput(userID, taskID uint64) (services.UpdateTaskInput, error) {
	input := services.UpdateTaskInput{UserID: userID, TaskID: taskID}
	var err error

	fields := []struct {
		key string
		dst **string
	}{
		{"title", &input.Title},
		{"description", &input.Description},
		{"due_date", &input.DueDate},
		{"priority", &input.Priority},
		{"status", &input.Status},
		{"category", &input.Category},
	}
	for _, f := range fields {
		if *f.dst, err = p.stringPtr(f.key); err != nil {
			return input, err
		}
	}

	tags, present, err := p.tags()
	if err != nil {
		return input, err
	}
	if present {
		input.Tags = &tags
	}
	return input, nil
}
