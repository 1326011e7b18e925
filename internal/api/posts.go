package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vlad4uk/padaroja-cli/internal/model"
)

// Feed 公共信息流
// 支持按标题搜索与标签过滤，两者均为可选
func (c *Client) Feed(ctx context.Context, search, tags string) ([]model.Post, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if tags != "" {
		query.Set("tags", tags)
	}

	var posts []model.Post
	if err := c.get(ctx, "/api/posts", query, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UserPosts 指定用户的帖子列表
// userID为0时返回当前登录用户的帖子
func (c *Client) UserPosts(ctx context.Context, userID uint) ([]model.Post, error) {
	path := "/api/user/posts"
	if userID != 0 {
		path = fmt.Sprintf("/api/user/%d/posts", userID)
	}

	var posts []model.Post
	if err := c.get(ctx, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost 删除帖子
func (c *Client) DeletePost(ctx context.Context, postID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/posts/%d", postID))
}

// ReportPost 举报帖子
func (c *Client) ReportPost(ctx context.Context, postID uint, reason string) error {
	return c.post(ctx, fmt.Sprintf("/api/posts/%d/report", postID), model.ReportReason{Reason: reason}, nil)
}
