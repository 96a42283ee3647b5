package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"gitee.com/autopuzzle/notification-center/internal/web"
	"github.com/ecodeclub/ginx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthBuilder(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	jwtAuth := auth.NewJwtAuth("test-key")
	token, err := jwtAuth.Encode(domain.Caller{UserID: 7, Roles: []string{domain.RoleExpert}}, time.Minute)
	require.NoError(t, err)
	other, err := auth.NewJwtAuth("other-key").Encode(domain.Caller{UserID: 7}, time.Minute)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantCaller domain.Caller
	}{
		{
			name:       "令牌有效",
			header:     "Bearer " + token,
			wantStatus: http.StatusOK,
			wantCaller: domain.Caller{UserID: 7, Roles: []string{domain.RoleExpert}},
		},
		{
			name:       "没有令牌",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "不是 Bearer",
			header:     "Basic " + token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "签名不对",
			header:     "Bearer " + other,
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := gin.New()
			server.Use(NewAuthBuilder(jwtAuth).Build())
			var got domain.Caller
			server.GET("/ping", func(ctx *gin.Context) {
				got = web.Caller(ctx)
				ctx.String(http.StatusOK, "pong")
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			if tc.wantStatus != http.StatusOK {
				var res ginx.Result
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				assert.Equal(t, web.CodeUnauthenticated, res.Code)
				return
			}
			assert.Equal(t, tc.wantCaller, got)
		})
	}
}
