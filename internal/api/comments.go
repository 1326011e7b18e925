package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vlad4uk/padaroja-cli/internal/dto"
	"github.com/vlad4uk/padaroja-cli/internal/model"
)

// Comments 拉取帖子的评论列表（扁平分页，包含顶级评论与回复）
func (c *Client) Comments(ctx context.Context, postID uint, page, limit int) (*dto.CommentListResponse, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp dto.CommentListResponse
	if err := c.get(ctx, fmt.Sprintf("/api/comments/post/%d", postID), query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Replies 拉取指定评论的回复
func (c *Client) Replies(ctx context.Context, commentID uint) ([]model.Comment, error) {
	var resp dto.CommentRepliesResponse
	if err := c.get(ctx, fmt.Sprintf("/api/comments/%d/replies", commentID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Replies, nil
}

// CreateComment 创建评论或回复
// 服务端分配id并返回完整评论对象
func (c *Client) CreateComment(ctx context.Context, postID uint, req *dto.CommentCreateRequest) (*model.Comment, error) {
	var resp dto.CommentCreateResponse
	if err := c.post(ctx, fmt.Sprintf("/api/comments/post/%d", postID), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

// DeleteComment 删除评论
func (c *Client) DeleteComment(ctx context.Context, commentID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/comments/%d", commentID))
}

// ReportComment 举报评论
func (c *Client) ReportComment(ctx context.Context, commentID uint, reason string) error {
	return c.post(ctx, fmt.Sprintf("/api/mod/comments/%d/complaint", commentID), model.ReportReason{Reason: reason}, nil)
}
