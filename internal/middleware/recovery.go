package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
)

// Recovery turns a panic into the usual 500 JSON error body
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		apierrors.Respond(c, apierrors.NewInternalError("Internal server error", fmt.Errorf("panic: %v", recovered)))
	})
}
