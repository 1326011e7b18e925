package model

// Identity 当前登录用户身份
// 通过显式传参注入各服务，任何组件不读取全局状态
type Identity struct {
	UserID      uint
	Username    string
	IsModerator bool
}

// Anonymous 未登录身份
var Anonymous = Identity{}

// IsLoggedIn 是否已登录
func (i Identity) IsLoggedIn() bool {
	return i.UserID != 0
}

// CanDelete 是否可以删除指定作者的内容
// 本人或具有版主权限时允许
func (i Identity) CanDelete(authorID uint) bool {
	if !i.IsLoggedIn() {
		return false
	}
	return i.UserID == authorID || i.IsModerator
}
