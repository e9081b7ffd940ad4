package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/visitorpass/internal/shared/errors"
)

func TestErrorResponseWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantType      string
		wantRetryable bool
	}{
		{"validation", errors.NewValidationError("Validation failed", "Visitor name is required"), http.StatusBadRequest, "validation_error", false},
		{"conflict is retryable", errors.NewConflictError("modified concurrently"), http.StatusConflict, "conflict", true},
		{"invalid state", errors.NewInvalidStateError("not pending"), http.StatusConflict, "invalid_state", false},
		{"wrapped app error", fmt.Errorf("wrap: %w", errors.NewNotFoundError("missing")), http.StatusNotFound, "not_found", false},
		{"plain error hidden", fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, "internal_error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponseWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.Equal(t, tt.wantRetryable, resp.Error.Retryable)
			assert.NotContains(t, resp.Error.Message, "dial tcp")
		})
	}
}

func TestListSuccessResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ListSuccessResponse(c, []string{"a", "b"}, 41, 2, 20)

	var body struct {
		Data ListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(41), body.Data.Total)
	assert.Equal(t, 3, body.Data.TotalPages)
}

func TestValidateStruct(t *testing.T) {
	type reviewBody struct {
		Decision string `json:"decision" validate:"required,oneof=approved declined"`
		Comments string `json:"review_comments" validate:"max=5"`
	}

	err := ValidateStruct(reviewBody{Decision: "maybe", Comments: "too long"})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "decision must be one of [approved declined]")
	assert.Contains(t, appErr.Details, "review_comments must be at most 5 characters long")

	assert.NoError(t, ValidateStruct(reviewBody{Decision: "approved"}))
}
