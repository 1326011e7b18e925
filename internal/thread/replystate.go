package thread

import "github.com/vlad4uk/padaroja-cli/internal/model"

// ReplyState 单条评论的回复展示状态
// 与树结构相互独立，以评论id为键
type ReplyState struct {
	Expanded bool
	Loading  bool
	Replies  []model.Comment
}

// Tracker 回复状态表
// 没有对应条目的评论视为未展开、未加载任何回复
type Tracker struct {
	states map[uint]*ReplyState
}

// NewTracker 创建回复状态表
func NewTracker() *Tracker {
	return &Tracker{states: make(map[uint]*ReplyState)}
}

// Get 获取状态快照
func (t *Tracker) Get(id uint) ReplyState {
	if s, ok := t.states[id]; ok {
		out := *s
		out.Replies = append([]model.Comment(nil), s.Replies...)
		return out
	}
	return ReplyState{}
}

// Seed 用已知回复初始化状态
func (t *Tracker) Seed(id uint, replies []model.Comment) {
	t.states[id] = &ReplyState{
		Replies: append([]model.Comment(nil), replies...),
	}
}

// ToggleExpansion 切换展开状态
// 返回切换后的展开状态，以及是否需要发起一次回复拉取：
// 展开、尚无已知回复且没有正在进行的拉取时需要，同时置位Loading
func (t *Tracker) ToggleExpansion(id uint) (expanded, needFetch bool) {
	s := t.ensure(id)
	s.Expanded = !s.Expanded

	if s.Expanded && len(s.Replies) == 0 && !s.Loading {
		s.Loading = true
		return s.Expanded, true
	}
	return s.Expanded, false
}

// FinishLoading 结束拉取
func (t *Tracker) FinishLoading(id uint) {
	if s, ok := t.states[id]; ok {
		s.Loading = false
	}
}

// MergeReplies 合并拉取到的回复
// 按id去重：本地已有的条目保留，传入的重复条目丢弃，
// 保证本地刚创建的回复不会被重复显示。同时结束Loading
func (t *Tracker) MergeReplies(id uint, fetched []model.Comment) {
	s := t.ensure(id)
	s.Loading = false

	seen := make(map[uint]bool, len(s.Replies))
	for _, r := range s.Replies {
		seen[r.ID] = true
	}
	for _, r := range fetched {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		s.Replies = append(s.Replies, r)
	}
}

// AppendReply 追加一条本地新建的回复并自动展开
func (t *Tracker) AppendReply(id uint, reply model.Comment) {
	s := t.ensure(id)
	for _, r := range s.Replies {
		if r.ID == reply.ID {
			return
		}
	}
	s.Replies = append(s.Replies, reply)
	s.Expanded = true
}

// RemoveReply 从指定评论的回复序列中移除一条回复
func (t *Tracker) RemoveReply(id, replyID uint) {
	s, ok := t.states[id]
	if !ok {
		return
	}
	for i, r := range s.Replies {
		if r.ID == replyID {
			s.Replies = append(s.Replies[:i], s.Replies[i+1:]...)
			return
		}
	}
}

// Remove 删除评论时销毁其状态
func (t *Tracker) Remove(id uint) {
	delete(t.states, id)
}

// Count 已知回复数
func (t *Tracker) Count(id uint) int {
	if s, ok := t.states[id]; ok {
		return len(s.Replies)
	}
	return 0
}

func (t *Tracker) ensure(id uint) *ReplyState {
	s, ok := t.states[id]
	if !ok {
		s = &ReplyState{}
		t.states[id] = s
	}
	return s
}
