package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		write    func(c *gin.Context)
		wantCode int
		wantMsg  string
		wantData any
	}{
		{"Success", func(c *gin.Context) { Success(c, gin.H{"success": true}, "ok") }, http.StatusOK, "ok", map[string]any{"success": true}},
		{"Fail", func(c *gin.Context) { Fail(c, http.StatusBadRequest, "Dados inválidos") }, http.StatusBadRequest, "Dados inválidos", nil},
		{"FailWithData", func(c *gin.Context) {
			FailWithData(c, http.StatusTooManyRequests, "limite", gin.H{"retryAfter": 180})
		}, http.StatusTooManyRequests, "limite", map[string]any{"retryAfter": float64(180)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.write(c)

			assert.Equal(t, tt.wantCode, w.Code)
			var got Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantData, got.Data)
		})
	}
}
