package model

// Comment 评论
// 字段与服务端返回的JSON保持一致
type Comment struct {
	ID         uint        `json:"id"`
	PostID     uint        `json:"post_id"`
	UserID     uint        `json:"user_id"`
	ParentID   *uint       `json:"parent_id"`
	Content    string      `json:"content"`
	IsApproved bool        `json:"is_approved"`
	CreatedAt  string      `json:"created_at"`
	User       CommentUser `json:"user"`
}

// CommentUser 评论作者信息
type CommentUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

// IsRoot 是否为顶级评论
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == 0
}

// ModeratedPlaceholder 未通过审核的评论在展示时使用的占位内容
const ModeratedPlaceholder = "[комментарий скрыт модератором]"

// DisplayContent 获取展示用内容
// 未通过审核的评论只展示占位文本，评论对象本身仍然保留
func (c *Comment) DisplayContent() string {
	if !c.IsApproved {
		return ModeratedPlaceholder
	}
	return c.Content
}
