package model

// Post 帖子摘要
// 对应公共信息流 /api/posts 返回的条目
type Post struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	CreatedAt  string  `json:"created_at"`
	PlaceName  string  `json:"place_name"`
	Tags       []string `json:"tags"`
	Photos     []Photo `json:"photos"`
	LikesCount int     `json:"likes_count"`
	UserID     uint    `json:"user_id"`
	UserAvatar string  `json:"user_avatar"`
	UserName   string  `json:"user_name"`
}

// Photo 帖子照片
type Photo struct {
	URL string `json:"url"`
}

// ReportReason 举报原因
type ReportReason struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}
