package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"github.com/vlad4uk/padaroja-cli/pkg/cache"
	"go.uber.org/zap"
)

// RefreshService 点赞数定时刷新服务
// 周期性地重新拉取被关注游记的权威点赞数，
// 使本地状态追上其他用户并发点赞造成的变化
type RefreshService struct {
	interaction *InteractionService
	cache       cache.Cache
	log         *zap.SugaredLogger
	cron        *cron.Cron

	mu      sync.Mutex
	watched map[uint]struct{}
}

// NewRefreshService 创建刷新服务实例
func NewRefreshService(interaction *InteractionService, c cache.Cache) *RefreshService {
	return &RefreshService{
		interaction: interaction,
		cache:       c,
		log:         logger.GetSugaredLogger(),
		watched:     make(map[uint]struct{}),
	}
}

// Watch 将游记加入刷新列表
func (s *RefreshService) Watch(postIDs ...uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range postIDs {
		s.watched[id] = struct{}{}
	}
}

// Unwatch 将游记移出刷新列表
func (s *RefreshService) Unwatch(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watched, postID)
}

// Start 按cron表达式启动定时刷新
// 表达式带秒字段，例如 "0 */1 * * * *" 表示每分钟一次
func (s *RefreshService) Start(spec string) error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, s.refreshAll); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop 停止定时刷新并等待进行中的任务结束
func (s *RefreshService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// refreshAll 刷新所有被关注游记的点赞数
func (s *RefreshService) refreshAll() {
	s.mu.Lock()
	ids := make([]uint, 0, len(s.watched))
	for id := range s.watched {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range ids {
		s.interaction.refreshCount(ctx, id)
		if s.cache != nil {
			count := s.interaction.State(id).LikesCount
			if err := s.cache.Set(ctx, cache.LikesCountCacheKey(id), count, cache.CountExpiration); err != nil {
				s.log.Debugf("写入点赞数缓存失败: %v", err)
			}
		}
		// 避免过快请求
		time.Sleep(50 * time.Millisecond)
	}

	s.log.Debugf("点赞数刷新完成: count=%d", len(ids))
}
