package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"auth", NewAuthError("nope"), http.StatusUnauthorized},
		{"not found", NewNotFoundError("gone"), http.StatusNotFound},
		{"conflict", NewConflictError("dup"), http.StatusBadRequest},
		{"unavailable", NewUnavailableError("off"), http.StatusServiceUnavailable},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFoundError("gone")), http.StatusNotFound},
		{"plain", stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestAPIError_IsAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternalError("Failed to list tasks", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, NewNotFoundError("Task not found"), ErrTaskNotFound)
	assert.NotErrorIs(t, NewNotFoundError("User not found"), ErrTaskNotFound)
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("api error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, NewConflictError("User with this email already exists"))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "User with this email already exists", body["error"])
		assert.Equal(t, ErrCodeConflict, body["code"])
		assert.True(t, c.IsAborted())
	})

	t.Run("unclassified error becomes 500 with its message", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Respond(c, stderrors.New("database is locked"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "database is locked", body["error"])
		assert.Equal(t, ErrCodeInternalError, body["code"])
	})
}
