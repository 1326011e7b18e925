package service

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vlad4uk/padaroja-cli/internal/api"
	"github.com/vlad4uk/padaroja-cli/internal/config"
)

// newFakeBackend 启动一个gin假服务端用于服务层测试
func newFakeBackend(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// newTestClient 创建指向假服务端的REST客户端
func newTestClient(t *testing.T, ts *httptest.Server) *api.Client {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = ts.URL
	cfg.API.Retries = 1
	client, err := api.New(cfg)
	assert.NoError(t, err)
	return client
}
