package constants

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
)

// Header names
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerPrefix        = "Bearer "
)

// Task defaults
const (
	DefaultCategory = "General"
	TagSeparator    = ","
)

// Column limits, mirrored from the model definitions
const (
	MaxNameLength     = 100
	MaxEmailLength    = 120
	MaxTitleLength    = 200
	MaxCategoryLength = 50
	MaxTagsLength     = 200
)

// MaxSuggestedTasks caps the number of AI suggestions accepted per request
const MaxSuggestedTasks = 20
