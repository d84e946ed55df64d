package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/yukikurage/todo-api/internal/constants"
)

// TagList is an ordered list of tags persisted as a single comma-joined column.
// Tags must not contain the separator; callers validate that before saving.
type TagList []string

// Value implements driver.Valuer. An empty list is stored as NULL, so an
// empty string always means a list holding one empty tag.
func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return strings.Join(t, constants.TagSeparator), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = TagList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("models: cannot scan %T into TagList", src)
	}

	*t = strings.Split(raw, constants.TagSeparator)
	return nil
}
