package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(secret), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.String(http.StatusOK, claims.Username)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	user := &model.User{UUIDBase: model.UUIDBase{ID: model.GenerateUUID()}, Username: "amy"}
	valid, err := util.GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)
	foreign, err := util.GenerateJWT(user, "other-secret", time.Hour)
	require.NoError(t, err)
	expired, err := util.GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Token " + valid, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	r := newRouter("secret")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "amy", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"statusCode":401`)
			}
		})
	}
}
