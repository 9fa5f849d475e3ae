package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/catalog-sync/runs", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusBadRequest, "capped at %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	runBody := `{"credentials":{"endpoint":"https://shop.example"},"options":{"mode":"full"}}`

	tests := []struct {
		name          string
		limit         int64
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{name: "within limit", limit: 1024, body: runBody, contentLength: int64(len(runBody)), wantStatus: http.StatusOK},
		{name: "declared length over limit", limit: 16, body: runBody, contentLength: int64(len(runBody)), wantStatus: http.StatusRequestEntityTooLarge, wantBody: "ERR_REQUEST_TOO_LARGE"},
		{name: "unknown length capped on read", limit: 16, body: runBody, contentLength: -1, wantStatus: http.StatusBadRequest, wantBody: "capped at 16"},
		{name: "zero limit disables", limit: 0, body: runBody, contentLength: int64(len(runBody)), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/catalog-sync/runs", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			bodyLimitRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}
