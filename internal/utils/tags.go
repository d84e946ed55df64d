package utils

import (
	"errors"
	"strings"

	"github.com/yukikurage/todo-api/internal/constants"
)

var (
	ErrTagNotString    = errors.New("tags must be a list of strings")
	ErrTagHasSeparator = errors.New("tags must not contain commas")
	ErrTagsTooLong     = errors.New("tags are too long")
)

// NormalizeTags converts a decoded JSON value into an ordered tag list.
// Anything that is not a list yields an empty list. Tags are kept exactly as
// sent, including whitespace and empty strings.
func NormalizeTags(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return []string{}, nil
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, ErrTagNotString
		}
		if strings.Contains(s, constants.TagSeparator) {
			return nil, ErrTagHasSeparator
		}
		tags = append(tags, s)
	}

	if len(strings.Join(tags, constants.TagSeparator)) > constants.MaxTagsLength {
		return nil, ErrTagsTooLong
	}
	return tags, nil
}
