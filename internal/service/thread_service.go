package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vlad4uk/padaroja-cli/internal/api"
	"github.com/vlad4uk/padaroja-cli/internal/dto"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"github.com/vlad4uk/padaroja-cli/internal/model"
	"github.com/vlad4uk/padaroja-cli/internal/thread"
	"go.uber.org/zap"
)

var (
	// ErrDeleteForbidden 当前身份无权删除该评论
	ErrDeleteForbidden = errors.New("没有权限删除该评论")
	// ErrDeleteCancelled 用户取消了删除操作
	ErrDeleteCancelled = errors.New("删除操作已取消")
	// ErrCommentNotFound 评论不在当前会话中
	ErrCommentNotFound = errors.New("评论不存在")
)

// ThreadService 单篇游记的评论会话
// 持有评论树与回复展开状态，所有修改经由互斥锁串行化
type ThreadService struct {
	client    *api.Client
	content   *ContentService
	log       *zap.SugaredLogger
	postID    uint
	pageLimit int

	mu      sync.Mutex
	thread  *thread.Thread
	tracker *thread.Tracker
}

// NewThreadService 创建评论会话实例
func NewThreadService(client *api.Client, content *ContentService, postID uint, pageLimit int) *ThreadService {
	if pageLimit <= 0 {
		pageLimit = 100
	}
	return &ThreadService{
		client:    client,
		content:   content,
		log:       logger.GetSugaredLogger(),
		postID:    postID,
		pageLimit: pageLimit,
		thread:    thread.Build(nil),
		tracker:   thread.NewTracker(),
	}
}

// Load 拉取全部评论并构建会话状态
// 按页拉平后一次性建树，顶级评论的已知回复预填到状态跟踪器
func (s *ThreadService) Load(ctx context.Context) error {
	var all []model.Comment
	page := 1
	for {
		resp, err := s.client.Comments(ctx, s.postID, page, s.pageLimit)
		if err != nil {
			return fmt.Errorf("拉取评论失败: %w", err)
		}
		all = append(all, resp.Comments...)
		if !resp.HasMore || len(resp.Comments) == 0 {
			break
		}
		page++
	}

	t := thread.Build(all)
	tracker := thread.NewTracker()
	for _, root := range t.Roots() {
		children := t.Children(root.ID)
		if len(children) == 0 {
			continue
		}
		replies := make([]model.Comment, 0, len(children))
		for _, child := range children {
			replies = append(replies, child.Comment)
		}
		tracker.Seed(root.ID, replies)
	}

	s.mu.Lock()
	s.thread = t
	s.tracker = tracker
	s.mu.Unlock()

	s.log.Debugf("评论会话加载完成: post_id=%d, total=%d", s.postID, t.Len())
	return nil
}

// Roots 获取顶级评论列表快照
func (s *ThreadService) Roots() []model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	roots := s.thread.Roots()
	out := make([]model.Comment, 0, len(roots))
	for _, n := range roots {
		out = append(out, n.Comment)
	}
	return out
}

// Len 当前会话中的评论总数
func (s *ThreadService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thread.Len()
}

// ReplyState 获取指定评论的回复展开状态快照
func (s *ThreadService) ReplyState(id uint) thread.ReplyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Get(id)
}

// Walk 遍历评论树
func (s *ThreadService) Walk(fn func(n *thread.Node, depth int) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thread.Walk(fn)
}

// Create 发表顶级评论
// 评论创建不做乐观更新：必须等服务端分配id后才插入本地树
func (s *ThreadService) Create(ctx context.Context, identity model.Identity, content string) (*model.Comment, error) {
	if !identity.IsLoggedIn() {
		return nil, api.ErrUnauthenticated
	}

	req := &dto.CommentCreateRequest{Content: content}
	if err := s.content.Validate(req); err != nil {
		return nil, err
	}
	req.Content = s.content.Filter(req.Content)

	created, err := s.client.CreateComment(ctx, s.postID, req)
	if err != nil {
		return nil, fmt.Errorf("发表评论失败: %w", err)
	}

	s.mu.Lock()
	s.thread.Insert(*created)
	s.mu.Unlock()

	return created, nil
}

// Reply 回复评论
// 回复统一挂到目标评论所在的顶级评论下，目标由权威树向上回溯得出
func (s *ThreadService) Reply(ctx context.Context, identity model.Identity, targetID uint, content string) (*model.Comment, error) {
	if !identity.IsLoggedIn() {
		return nil, api.ErrUnauthenticated
	}

	s.mu.Lock()
	root, ok := s.thread.RootOf(targetID)
	s.mu.Unlock()
	if !ok {
		return nil, ErrCommentNotFound
	}

	parentID := root.ID
	req := &dto.CommentCreateRequest{Content: content, ParentID: &parentID}
	if err := s.content.Validate(req); err != nil {
		return nil, err
	}
	req.Content = s.content.Filter(req.Content)

	created, err := s.client.CreateComment(ctx, s.postID, req)
	if err != nil {
		return nil, fmt.Errorf("回复评论失败: %w", err)
	}

	s.mu.Lock()
	s.thread.Insert(*created)
	s.tracker.AppendReply(parentID, *created)
	s.mu.Unlock()

	return created, nil
}

// Delete 删除评论
// 确认通过后先移除本地子树再发请求；失败时不回滚，重新加载后评论会重新出现
func (s *ThreadService) Delete(ctx context.Context, identity model.Identity, commentID uint, confirm func() bool) error {
	s.mu.Lock()
	node, ok := s.thread.Get(commentID)
	if !ok {
		s.mu.Unlock()
		return ErrCommentNotFound
	}
	authorID := node.UserID
	parentID := node.ParentID
	s.mu.Unlock()

	if !identity.CanDelete(authorID) {
		return ErrDeleteForbidden
	}
	if confirm != nil && !confirm() {
		return ErrDeleteCancelled
	}

	s.mu.Lock()
	s.thread.Remove(commentID)
	s.tracker.Remove(commentID)
	if parentID != nil {
		s.tracker.RemoveReply(*parentID, commentID)
	}
	s.mu.Unlock()

	if err := s.client.DeleteComment(ctx, commentID); err != nil {
		s.log.Warnf("删除评论请求失败: comment_id=%d, err=%v", commentID, err)
		return fmt.Errorf("删除评论失败: %w", err)
	}
	return nil
}

// ToggleReplies 展开或收起评论回复
// 首次展开且本地没有回复数据时触发拉取；拉取期间评论被删除则静默跳过合并
func (s *ThreadService) ToggleReplies(ctx context.Context, commentID uint) (bool, error) {
	s.mu.Lock()
	if !s.thread.Contains(commentID) {
		s.mu.Unlock()
		return false, ErrCommentNotFound
	}
	expanded, needFetch := s.tracker.ToggleExpansion(commentID)
	s.mu.Unlock()

	if !needFetch {
		return expanded, nil
	}

	replies, err := s.client.Replies(ctx, commentID)
	if err != nil {
		s.mu.Lock()
		s.tracker.FinishLoading(commentID)
		s.mu.Unlock()
		return expanded, fmt.Errorf("拉取回复失败: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.thread.Contains(commentID) {
		// 拉取期间评论已被删除
		return false, nil
	}
	s.tracker.MergeReplies(commentID, replies)
	for _, r := range replies {
		s.thread.Insert(r)
	}
	return expanded, nil
}

// Report 举报评论
func (s *ThreadService) Report(ctx context.Context, identity model.Identity, commentID uint, reason string) error {
	if !identity.IsLoggedIn() {
		return api.ErrUnauthenticated
	}
	if err := s.content.Validate(&model.ReportReason{Reason: reason}); err != nil {
		return err
	}
	if err := s.client.ReportComment(ctx, commentID, reason); err != nil {
		return fmt.Errorf("举报评论失败: %w", err)
	}
	return nil
}
