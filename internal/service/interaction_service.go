package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vlad4uk/padaroja-cli/internal/api"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"github.com/vlad4uk/padaroja-cli/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrActionPending 同一目标上已有正在进行的操作
var ErrActionPending = errors.New("操作正在进行中，请稍后再试")

// PostInteraction 单篇游记的交互状态
type PostInteraction struct {
	Liked      bool
	Favourited bool
	LikesCount int
}

// InteractionService 点赞与收藏交互服务
// 采用乐观更新：先翻转本地状态再发请求，失败时回滚
type InteractionService struct {
	client *api.Client
	cache  cache.Cache
	log    *zap.SugaredLogger
	settle time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
	states  map[uint]*PostInteraction

	countGroup singleflight.Group
}

// NewInteractionService 创建交互服务实例
func NewInteractionService(client *api.Client, c cache.Cache, settle time.Duration) *InteractionService {
	return &InteractionService{
		client:  client,
		cache:   c,
		log:     logger.GetSugaredLogger(),
		settle:  settle,
		pending: make(map[string]struct{}),
		states:  make(map[uint]*PostInteraction),
	}
}

// Hydrate 拉取并缓存指定游记的交互状态
func (s *InteractionService) Hydrate(ctx context.Context, postID uint) (PostInteraction, error) {
	var st PostInteraction

	liked, err := s.likeStatus(ctx, postID)
	if err != nil && !errors.Is(err, api.ErrUnauthenticated) {
		return st, err
	}
	st.Liked = liked

	favourited, err := s.favouriteStatus(ctx, postID)
	if err != nil && !errors.Is(err, api.ErrUnauthenticated) {
		return st, err
	}
	st.Favourited = favourited

	count, err := s.client.LikesCount(ctx, postID)
	if err != nil {
		return st, err
	}
	st.LikesCount = count

	s.mu.Lock()
	s.states[postID] = &st
	s.mu.Unlock()

	snap := st
	return snap, nil
}

// State 获取本地交互状态快照
// 未拉取过的游记返回零值状态
func (s *InteractionService) State(postID uint) PostInteraction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[postID]; ok {
		return *st
	}
	return PostInteraction{}
}

// ToggleLike 点赞或取消点赞
// 本地状态立即翻转；请求失败时回滚，401时额外提示重新登录，
// 409视为服务端已处于目标状态，保留本地结果不报错
func (s *InteractionService) ToggleLike(ctx context.Context, postID uint) (PostInteraction, error) {
	key := fmt.Sprintf("like:%d", postID)

	s.mu.Lock()
	if _, busy := s.pending[key]; busy {
		s.mu.Unlock()
		return s.State(postID), ErrActionPending
	}
	s.pending[key] = struct{}{}

	st := s.ensureState(postID)
	st.Liked = !st.Liked
	if st.Liked {
		st.LikesCount++
	} else if st.LikesCount > 0 {
		st.LikesCount--
	}
	target := st.Liked
	s.mu.Unlock()

	var err error
	if target {
		err = s.client.Like(ctx, postID)
	} else {
		err = s.client.Unlike(ctx, postID)
	}

	switch {
	case err == nil:
		// 成功后以服务端计数为准
		s.refreshCount(ctx, postID)
	case errors.Is(err, api.ErrConflict):
		// 服务端已是目标状态，本地结果视为已生效
		s.log.Debugf("点赞状态冲突，按已生效处理: post_id=%d", postID)
		s.refreshCount(ctx, postID)
		err = nil
	case errors.Is(err, api.ErrUnauthenticated):
		s.revertLike(postID, target)
	default:
		s.log.Warnf("点赞请求失败，回滚本地状态: post_id=%d, err=%v", postID, err)
		s.revertLike(postID, target)
	}

	if err == nil {
		s.storeLikeCache(ctx, postID)
	}

	s.release(key)
	return s.State(postID), err
}

// ToggleFavourite 收藏或取消收藏
func (s *InteractionService) ToggleFavourite(ctx context.Context, postID uint) (PostInteraction, error) {
	key := fmt.Sprintf("favourite:%d", postID)

	s.mu.Lock()
	if _, busy := s.pending[key]; busy {
		s.mu.Unlock()
		return s.State(postID), ErrActionPending
	}
	s.pending[key] = struct{}{}

	st := s.ensureState(postID)
	st.Favourited = !st.Favourited
	target := st.Favourited
	s.mu.Unlock()

	var err error
	if target {
		err = s.client.Favourite(ctx, postID)
	} else {
		err = s.client.Unfavourite(ctx, postID)
	}

	switch {
	case err == nil:
	case errors.Is(err, api.ErrConflict):
		s.log.Debugf("收藏状态冲突，按已生效处理: post_id=%d", postID)
		err = nil
	case errors.Is(err, api.ErrUnauthenticated):
		s.revertFavourite(postID, target)
	default:
		s.log.Warnf("收藏请求失败，回滚本地状态: post_id=%d, err=%v", postID, err)
		s.revertFavourite(postID, target)
	}

	if err == nil && s.cache != nil {
		s.mu.Lock()
		favourited := s.states[postID].Favourited
		s.mu.Unlock()
		if cerr := s.cache.Set(ctx, cache.FavouriteStatusCacheKey(postID), favourited, cache.StatusExpiration); cerr != nil {
			s.log.Debugf("写入收藏状态缓存失败: %v", cerr)
		}
	}

	s.release(key)
	return s.State(postID), err
}

// refreshCount 重新拉取权威点赞数
// singleflight确保同一游记的并发刷新只发一次请求
func (s *InteractionService) refreshCount(ctx context.Context, postID uint) {
	key := fmt.Sprintf("likes:%d", postID)
	v, err, _ := s.countGroup.Do(key, func() (interface{}, error) {
		return s.client.LikesCount(ctx, postID)
	})
	if err != nil {
		s.log.Debugf("刷新点赞数失败: post_id=%d, err=%v", postID, err)
		return
	}

	count := v.(int)
	s.mu.Lock()
	s.ensureState(postID).LikesCount = count
	s.mu.Unlock()
}

// likeStatus 读取点赞状态，优先走缓存
func (s *InteractionService) likeStatus(ctx context.Context, postID uint) (bool, error) {
	if s.cache != nil {
		var liked bool
		if err := s.cache.GetJSON(ctx, cache.LikeStatusCacheKey(postID), &liked); err == nil {
			return liked, nil
		}
	}

	liked, err := s.client.LikeStatus(ctx, postID)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		if cerr := s.cache.Set(ctx, cache.LikeStatusCacheKey(postID), liked, cache.StatusExpiration); cerr != nil {
			s.log.Debugf("写入点赞状态缓存失败: %v", cerr)
		}
	}
	return liked, nil
}

// favouriteStatus 读取收藏状态，优先走缓存
func (s *InteractionService) favouriteStatus(ctx context.Context, postID uint) (bool, error) {
	if s.cache != nil {
		var favourited bool
		if err := s.cache.GetJSON(ctx, cache.FavouriteStatusCacheKey(postID), &favourited); err == nil {
			return favourited, nil
		}
	}

	favourited, err := s.client.FavouriteStatus(ctx, postID)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		if cerr := s.cache.Set(ctx, cache.FavouriteStatusCacheKey(postID), favourited, cache.StatusExpiration); cerr != nil {
			s.log.Debugf("写入收藏状态缓存失败: %v", cerr)
		}
	}
	return favourited, nil
}

// storeLikeCache 将本地点赞状态与计数写入缓存
func (s *InteractionService) storeLikeCache(ctx context.Context, postID uint) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	st := *s.states[postID]
	s.mu.Unlock()

	if err := s.cache.Set(ctx, cache.LikeStatusCacheKey(postID), st.Liked, cache.StatusExpiration); err != nil {
		s.log.Debugf("写入点赞状态缓存失败: %v", err)
	}
	if err := s.cache.Set(ctx, cache.LikesCountCacheKey(postID), st.LikesCount, cache.CountExpiration); err != nil {
		s.log.Debugf("写入点赞数缓存失败: %v", err)
	}
}

// revertLike 回滚点赞翻转
func (s *InteractionService) revertLike(postID uint, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensureState(postID)
	st.Liked = !applied
	if applied {
		if st.LikesCount > 0 {
			st.LikesCount--
		}
	} else {
		st.LikesCount++
	}
}

// revertFavourite 回滚收藏翻转
func (s *InteractionService) revertFavourite(postID uint, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureState(postID).Favourited = !applied
}

// release 延迟释放操作锁
// 静默期内的重复点击仍被拒绝，避免请求刚返回就被连击
func (s *InteractionService) release(key string) {
	if s.settle <= 0 {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
		return
	}
	time.AfterFunc(s.settle, func() {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
	})
}

// ensureState 获取或创建状态，调用方需持有锁
func (s *InteractionService) ensureState(postID uint) *PostInteraction {
	st, ok := s.states[postID]
	if !ok {
		st = &PostInteraction{}
		s.states[postID] = st
	}
	return st
}
