package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/utils"
)

var (
	ErrSuggestionsDisabled = apierrors.NewUnavailableError("Task suggestions are not configured")
	ErrSuggestionTextEmpty = apierrors.NewValidationError("Text is required")
)

// AIService turns free-form text into task suggestions using an OpenAI chat
// model. Suggestions are returned to the caller and never stored.
type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// SuggestedTask is a task proposed by the model, already normalized.
type SuggestedTask struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.TaskPriority
	Category    string
	Tags        []string
}

type rawSuggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     *string  `json:"due_date"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// NewAIService returns nil when apiKey is empty, which disables suggestions.
func NewAIService(apiKey, model string) *AIService {
	if apiKey == "" {
		return nil
	}
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewAIServiceWithConfig builds the service from a full client config.
func NewAIServiceWithConfig(cfg openai.ClientConfig, model string) *AIService {
	if model == "" {
		model = openai.GPT4o
	}
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

// SuggestTasks extracts concrete tasks from text
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s == nil || s.client == nil {
		return nil, ErrSuggestionsDisabled
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrSuggestionTextEmpty
	}

	now := s.now().UTC()
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete to-do items from the text below.

Current time (UTC): %s

Text:
%s

Reply with a JSON array only, no prose:
[
  {
    "title": "short task title",
    "description": "details",
    "due_date": "ISO-8601 date-time such as 2025-10-28T23:59:59Z, or null when no deadline is stated",
    "priority": "High, Medium or Low",
    "category": "one-word category",
    "tags": ["tag"]
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") to absolute date-times
- Tags must not contain commas`, now.Format("2006-01-02 15:04:05"), text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to generate task suggestions", fmt.Errorf("OpenAI API error: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, apierrors.NewInternalError("Failed to generate task suggestions", fmt.Errorf("no response from OpenAI"))
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var raw []rawSuggestion
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, apierrors.NewInternalError("Failed to parse task suggestions",
			fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content))
	}

	if len(raw) > constants.MaxSuggestedTasks {
		return nil, apierrors.NewInternalError(
			fmt.Sprintf("Too many task suggestions (max %d)", constants.MaxSuggestedTasks), nil)
	}

	return normalizeSuggestions(raw, now), nil
}

// normalizeSuggestions drops untitled entries and coerces the remaining
// fields into values a task could be created with. Due dates that cannot be
// parsed or lie more than a day in the past are discarded.
func normalizeSuggestions(raw []rawSuggestion, now time.Time) []SuggestedTask {
	cutoff := now.Add(-24 * time.Hour)
	tasks := make([]SuggestedTask, 0, len(raw))

	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		if runes := []rune(title); len(runes) > constants.MaxTitleLength {
			title = string(runes[:constants.MaxTitleLength])
		}

		task := SuggestedTask{
			Title:       title,
			Description: strings.TrimSpace(r.Description),
			Priority:    models.TaskPriority(r.Priority),
			Category:    strings.TrimSpace(r.Category),
			Tags:        []string{},
		}
		if !task.Priority.Valid() {
			task.Priority = models.TaskPriorityMedium
		}
		if task.Category == "" || len([]rune(task.Category)) > constants.MaxCategoryLength {
			task.Category = constants.DefaultCategory
		}

		if r.DueDate != nil {
			if due, err := utils.ParseTimestamp(*r.DueDate); err == nil && !due.Before(cutoff) {
				task.DueDate = &due
			}
		}

		rawTags := make([]any, 0, len(r.Tags))
		for _, tag := range r.Tags {
			tag = strings.TrimSpace(strings.ReplaceAll(tag, constants.TagSeparator, " "))
			if tag != "" {
				rawTags = append(rawTags, tag)
			}
		}
		if tags, err := utils.NormalizeTags(rawTags); err == nil {
			task.Tags = tags
		}

		tasks = append(tasks, task)
	}

	return tasks
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[i+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
