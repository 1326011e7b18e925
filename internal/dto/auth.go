package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

// PostListRequest 信息流查询参数
type PostListRequest struct {
	Search string `form:"search"`
	Tags   string `form:"tags"`
}
