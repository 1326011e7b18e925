package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/dgrijalva/jwt-go"
	"github.com/vlad4uk/padaroja-cli/internal/dto"
	"github.com/vlad4uk/padaroja-cli/internal/model"
)

// sessionCookie 服务端下发的会话cookie名
const sessionCookie = "jwt"

// moderatorRoleID 版主角色
const moderatorRoleID = 2

// Login 登录并建立会话
// 服务端通过Set-Cookie下发jwt，后续请求由cookie jar自动携带
func (c *Client) Login(ctx context.Context, req *dto.LoginRequest) error {
	return c.post(ctx, "/api/auth/login", req, nil)
}

// Logout 退出登录
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/auth/logout", nil, nil)
}

// ProfileResponse 当前用户资料
type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
	RoleID   int    `json:"role_id"`
}

// Profile 获取当前用户资料
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.get(ctx, "/api/user/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Identity 当前登录身份
// 从会话cookie中解析jwt载荷获得user_id，再拉取资料补全用户名与角色。
// 客户端没有签名密钥，解析不做校验，真正的鉴权仍由服务端完成
func (c *Client) Identity(ctx context.Context) (model.Identity, error) {
	var raw string
	for _, ck := range c.Cookies() {
		if ck.Name == sessionCookie {
			raw = ck.Value
			break
		}
	}
	if raw == "" {
		return model.Anonymous, nil
	}

	parser := new(jwt.Parser)
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return model.Anonymous, fmt.Errorf("parse session token failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Anonymous, fmt.Errorf("unexpected claims type")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return model.Anonymous, nil
	}

	identity := model.Identity{UserID: uint(userID)}

	profile, err := c.Profile(ctx)
	if err != nil {
		// 资料拉取失败不影响已知的user_id
		c.logger.Warnf("fetch profile failed: %v", err)
		return identity, nil
	}
	identity.Username = profile.Username
	identity.IsModerator = profile.RoleID == moderatorRoleID
	return identity, nil
}

// sessionState 会话文件内容
type sessionState struct {
	Cookies []sessionCookieState `json:"cookies"`
}

type sessionCookieState struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveSession 将会话cookie写入文件
func (c *Client) SaveSession(path string) error {
	state := sessionState{}
	for _, ck := range c.Cookies() {
		state.Cookies = append(state.Cookies, sessionCookieState{Name: ck.Name, Value: ck.Value})
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session file failed: %w", err)
	}
	return nil
}

// LoadSession 从文件恢复会话cookie
// 文件不存在时视为未登录，不报错
func (c *Client) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session file failed: %w", err)
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("unmarshal session failed: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(state.Cookies))
	for _, ck := range state.Cookies {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	c.SetCookies(cookies)
	return nil
}

// ClearSession 删除会话文件
func (c *Client) ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
