package dto

// LikeStatusResponse 点赞状态响应
type LikeStatusResponse struct {
	IsLiked bool `json:"is_liked"`
}

// LikesCountResponse 点赞数响应
type LikesCountResponse struct {
	LikesCount int `json:"likes_count"`
}

// FavouriteStatusResponse 收藏状态响应
type FavouriteStatusResponse struct {
	IsFavourite bool `json:"is_favourite"`
}

// MessageResponse 通用消息响应
type MessageResponse struct {
	Message string `json:"message"`
}
