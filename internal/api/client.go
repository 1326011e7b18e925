package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"github.com/bwmarrin/snowflake"
	"github.com/vlad4uk/padaroja-cli/internal/config"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"go.uber.org/zap"
)

// Client REST客户端
// 会话凭证通过cookie jar隐式携带，每个请求附带X-Request-ID
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.SugaredLogger
	node    *snowflake.Node
	retries uint
}

// New 创建REST客户端
func New(cfg *config.Config) (*Client, error) {
	base, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url failed: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar failed: %w", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node failed: %w", err)
	}

	retries := uint(cfg.API.Retries)
	if retries == 0 {
		retries = 1
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.API.Timeout(),
			Jar:       jar,
			Transport: logger.HTTPTransport(nil),
		},
		logger:  logger.GetSugaredLogger(),
		node:    node,
		retries: retries,
	}, nil
}

// BaseURL 服务端地址
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// SetCookies 注入会话cookie
// 用于从会话文件恢复登录状态
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.http.Jar.SetCookies(c.baseURL, cookies)
}

// Cookies 当前会话cookie
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.baseURL)
}

// do 执行一次请求并解码响应
// 状态码映射为错误分类：401/409/404对应哨兵错误，其余4xx/5xx包装为*Error
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", c.node.Generate().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		return &Error{Status: resp.StatusCode, Message: decodeErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// get 幂等GET请求
// 仅对瞬时错误重试，业务错误直接返回
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return retry.Do(
		func() error {
			return c.do(ctx, http.MethodGet, path, query, nil, out)
		},
		retry.Attempts(c.retries),
		retry.Delay(200*time.Millisecond),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
}

// post 变更请求，不重试
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// delete 删除请求，不重试
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func decodeErrorMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Error
}
