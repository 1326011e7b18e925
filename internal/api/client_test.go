package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vlad4uk/padaroja-cli/internal/config"
	"github.com/vlad4uk/padaroja-cli/internal/dto"
)

func newTestBackend(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, ts *httptest.Server, retries int) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = ts.URL
	cfg.API.Retries = retries
	client, err := New(cfg)
	assert.NoError(t, err)
	return client
}

// TestErrorTaxonomy 状态码到错误分类的映射
func TestErrorTaxonomy(t *testing.T) {
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.GET("/api/likes/check/1", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		})
		r.POST("/api/likes/2", func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"error": "already liked"})
		})
		r.GET("/api/likes/count/3", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
		r.POST("/api/likes/4", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "некорректный запрос"})
		})
	})

	client := newClient(t, ts, 1)
	ctx := context.Background()

	_, err := client.LikeStatus(ctx, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = client.Like(ctx, 2)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = client.LikesCount(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)

	err = client.Like(ctx, 4)
	var apiErr *Error
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "некорректный запрос", apiErr.Message)
	}
}

// TestGetRetriesTransient GET在5xx时重试，最终成功
func TestGetRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.GET("/api/likes/count/:id", func(c *gin.Context) {
			if calls.Add(1) < 3 {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db down"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"likes_count": 5})
		})
	})

	client := newClient(t, ts, 3)
	count, err := client.LikesCount(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, int32(3), calls.Load())
}

// TestGetDoesNotRetryBusinessErrors GET遇到业务错误不重试
func TestGetDoesNotRetryBusinessErrors(t *testing.T) {
	var calls atomic.Int32
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.GET("/api/likes/count/:id", func(c *gin.Context) {
			calls.Add(1)
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	})

	client := newClient(t, ts, 3)
	_, err := client.LikesCount(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

// TestMutationsNeverRetried 变更请求不自动重试
func TestMutationsNeverRetried(t *testing.T) {
	var calls atomic.Int32
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.POST("/api/likes/:id", func(c *gin.Context) {
			calls.Add(1)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db down"})
		})
	})

	client := newClient(t, ts, 3)
	err := client.Like(context.Background(), 1)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

// TestIsTransient 瞬时错误判定
func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(ErrUnauthenticated))
	assert.False(t, IsTransient(ErrConflict))
	assert.False(t, IsTransient(ErrNotFound))
	assert.False(t, IsTransient(&Error{Status: 400}))
	assert.True(t, IsTransient(&Error{Status: 502}))
	assert.True(t, IsTransient(errors.New("connection refused")))
}

// TestIdentityFromSessionCookie 从会话cookie解析身份并补全资料
func TestIdentityFromSessionCookie(t *testing.T) {
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.GET("/api/user/profile", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"id": 7, "username": "vlad", "bio": "", "image_url": "", "role_id": 2,
			})
		})
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	client := newClient(t, ts, 1)
	client.SetCookies([]*http.Cookie{{Name: "jwt", Value: signed}})

	identity, err := client.Identity(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)
	assert.Equal(t, "vlad", identity.Username)
	assert.True(t, identity.IsModerator)
}

// TestIdentityAnonymousWithoutCookie 无会话cookie时返回匿名身份
func TestIdentityAnonymousWithoutCookie(t *testing.T) {
	ts := newTestBackend(t, func(r *gin.Engine) {})

	client := newClient(t, ts, 1)
	identity, err := client.Identity(context.Background())
	assert.NoError(t, err)
	assert.False(t, identity.IsLoggedIn())
}

// TestIdentityProfileFailureKeepsUserID 资料拉取失败不影响已解析的user_id
func TestIdentityProfileFailureKeepsUserID(t *testing.T) {
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.GET("/api/user/profile", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		})
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	client := newClient(t, ts, 1)
	client.SetCookies([]*http.Cookie{{Name: "jwt", Value: signed}})

	identity, err := client.Identity(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)
	assert.False(t, identity.IsModerator)
}

// TestSessionRoundTrip 会话cookie写入文件后可恢复
func TestSessionRoundTrip(t *testing.T) {
	ts := newTestBackend(t, func(r *gin.Engine) {})

	path := filepath.Join(t.TempDir(), "session.json")

	client := newClient(t, ts, 1)
	client.SetCookies([]*http.Cookie{{Name: "jwt", Value: "token-value"}})
	assert.NoError(t, client.SaveSession(path))

	restored := newClient(t, ts, 1)
	assert.NoError(t, restored.LoadSession(path))
	cookies := restored.Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, "jwt", cookies[0].Name)
		assert.Equal(t, "token-value", cookies[0].Value)
	}

	assert.NoError(t, client.ClearSession(path))
	// 会话文件不存在时按未登录处理
	assert.NoError(t, restored.LoadSession(filepath.Join(t.TempDir(), "missing.json")))
}

// TestLoginSendsCredentials 登录请求体字段
func TestLoginSendsCredentials(t *testing.T) {
	ts := newTestBackend(t, func(r *gin.Engine) {
		r.POST("/api/auth/login", func(c *gin.Context) {
			var req dto.LoginRequest
			assert.NoError(t, c.ShouldBindJSON(&req))
			assert.Equal(t, "vlad@example.com", req.Email)
			c.SetCookie("jwt", "issued-token", 3600, "/", "", false, true)
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})
	})

	client := newClient(t, ts, 1)
	err := client.Login(context.Background(), &dto.LoginRequest{Email: "vlad@example.com", Password: "secret"})
	assert.NoError(t, err)

	// 服务端下发的cookie进入jar
	found := false
	for _, ck := range client.Cookies() {
		if ck.Name == "jwt" && ck.Value == "issued-token" {
			found = true
		}
	}
	assert.True(t, found)
}
