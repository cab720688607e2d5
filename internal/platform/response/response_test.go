package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mirna-salem/petprofiles/internal/platform/domain"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "validation", err: domain.NewValidationError("bad"), wantStatus: http.StatusBadRequest, wantBody: `{"error":"bad","code":"validation"}`},
		{name: "unsupported", err: domain.NewUnsupportedMediaError("no"), wantStatus: http.StatusBadRequest, wantBody: `{"error":"no","code":"unsupported_media"}`},
		{name: "too large", err: domain.NewTooLargeError("big"), wantStatus: http.StatusBadRequest, wantBody: `{"error":"big","code":"too_large"}`},
		{name: "not found wrapped", err: fmt.Errorf("get: %w", domain.NewNotFoundError("Profile", "1")), wantStatus: http.StatusNotFound, wantBody: `{"error":"Profile 1 not found","code":"not_found"}`},
		{name: "conflict", err: domain.NewConflictError("stale"), wantStatus: http.StatusConflict, wantBody: `{"error":"stale","code":"conflict"}`},
		{name: "plain error hides detail", err: errors.New("pq: password authentication failed"), wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal server error","code":"internal"}`},
		{name: "internal hides detail", err: domain.NewInternalError("upload", errors.New("dial tcp 10.0.0.1")), wantStatus: http.StatusInternalServerError, wantBody: `{"error":"internal server error","code":"internal"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
