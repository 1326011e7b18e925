package dto

import "github.com/vlad4uk/padaroja-cli/internal/model"

// CommentCreateRequest 创建评论请求
type CommentCreateRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// CommentCreateResponse 创建评论响应
type CommentCreateResponse struct {
	Message string        `json:"message"`
	Comment model.Comment `json:"comment"`
}

// CommentListRequest 评论列表请求参数
type CommentListRequest struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Comments []model.Comment `json:"comments"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
	HasMore  bool            `json:"has_more"`
}

// CommentRepliesResponse 评论回复列表响应
type CommentRepliesResponse struct {
	Replies []model.Comment `json:"replies"`
}
