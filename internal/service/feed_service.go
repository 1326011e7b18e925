package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vlad4uk/padaroja-cli/internal/api"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"github.com/vlad4uk/padaroja-cli/internal/model"
	"github.com/vlad4uk/padaroja-cli/pkg/cache"
	"github.com/vlad4uk/padaroja-cli/pkg/debounce"
	"go.uber.org/zap"
)

// ErrPostNotFound 游记不在当前信息流中
var ErrPostNotFound = errors.New("游记不存在")

// FeedService 游记信息流服务
// 搜索输入经过去抖后才触发请求，静默窗口内只保留最后一次输入
type FeedService struct {
	client    *api.Client
	cache     cache.Cache
	log       *zap.SugaredLogger
	debouncer *debounce.Debouncer

	mu     sync.Mutex
	posts  []model.Post
	search string
	tags   string
}

// NewFeedService 创建信息流服务实例
func NewFeedService(client *api.Client, c cache.Cache, quiet time.Duration) *FeedService {
	return &FeedService{
		client:    client,
		cache:     c,
		log:       logger.GetSugaredLogger(),
		debouncer: debounce.New(quiet),
	}
}

// Search 输入搜索词
// 立即返回；静默窗口结束后对最后一次输入发起拉取，结果经回调送出
func (s *FeedService) Search(ctx context.Context, query string, done func([]model.Post, error)) {
	s.mu.Lock()
	s.search = query
	tags := s.tags
	s.mu.Unlock()

	s.debouncer.Do(func() {
		s.mu.Lock()
		latest := s.search
		s.mu.Unlock()

		posts, err := s.Fetch(ctx, latest, tags)
		if done != nil {
			done(posts, err)
		}
	})
}

// SetTags 设置标签过滤条件
func (s *FeedService) SetTags(tags string) {
	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()
}

// Fetch 直接拉取信息流
// 相同搜索条件短期内走缓存
func (s *FeedService) Fetch(ctx context.Context, search, tags string) ([]model.Post, error) {
	key := fmt.Sprintf(cache.FeedKey, search, tags)
	if s.cache != nil {
		var cached []model.Post
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			s.store(cached)
			return cached, nil
		}
	}

	posts, err := s.client.Feed(ctx, search, tags)
	if err != nil {
		return nil, fmt.Errorf("拉取信息流失败: %w", err)
	}

	if s.cache != nil {
		if cerr := s.cache.SetJSON(ctx, key, posts, cache.FeedExpiration); cerr != nil {
			s.log.Debugf("写入信息流缓存失败: %v", cerr)
		}
	}

	s.store(posts)
	return posts, nil
}

// Posts 获取当前信息流快照
func (s *FeedService) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// DeletePost 删除游记
// 确认通过后先从本地信息流移除再发请求；失败时不回滚，重新拉取后游记会重新出现
func (s *FeedService) DeletePost(ctx context.Context, identity model.Identity, postID uint, confirm func() bool) error {
	s.mu.Lock()
	var authorID uint
	found := false
	for _, p := range s.posts {
		if p.ID == postID {
			authorID = p.UserID
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrPostNotFound
	}
	if !identity.CanDelete(authorID) {
		return ErrDeleteForbidden
	}
	if confirm != nil && !confirm() {
		return ErrDeleteCancelled
	}

	s.mu.Lock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	s.mu.Unlock()

	if err := s.client.DeletePost(ctx, postID); err != nil {
		s.log.Warnf("删除游记请求失败: post_id=%d, err=%v", postID, err)
		return fmt.Errorf("删除游记失败: %w", err)
	}
	return nil
}

// ReportPost 举报游记
func (s *FeedService) ReportPost(ctx context.Context, identity model.Identity, postID uint, reason string) error {
	if !identity.IsLoggedIn() {
		return api.ErrUnauthenticated
	}
	if err := s.client.ReportPost(ctx, postID, reason); err != nil {
		return fmt.Errorf("举报游记失败: %w", err)
	}
	return nil
}

// Stop 停止去抖定时器
func (s *FeedService) Stop() {
	s.debouncer.Stop()
}

// store 保存信息流快照
func (s *FeedService) store(posts []model.Post) {
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}
