package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache: key not found")

// Cache 缓存接口
type Cache interface {
	// Get 获取缓存
	Get(ctx context.Context, key string) (string, error)

	// Set 设置缓存
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete 删除缓存
	Delete(ctx context.Context, keys ...string) error

	// GetJSON 获取JSON格式的缓存并反序列化
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON 序列化为JSON并设置缓存
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Close 关闭连接
	Close() error
}

// 缓存键名常量
const (
	// 交互状态相关缓存键
	LikeStatusKey      = "interaction:like:%d"      // 点赞状态
	FavouriteStatusKey = "interaction:favourite:%d" // 收藏状态
	LikesCountKey      = "interaction:likes:%d"     // 点赞数

	// 信息流相关缓存键
	FeedKey = "feed:search:%s:tags:%s" // 搜索结果
)

// 缓存过期时间常量
const (
	StatusExpiration = 5 * time.Minute  // 交互状态缓存5分钟
	CountExpiration  = 1 * time.Minute  // 点赞数缓存1分钟
	FeedExpiration   = 30 * time.Second // 信息流缓存30秒
)

// LikeStatusCacheKey 生成点赞状态键
func LikeStatusCacheKey(postID uint) string {
	return fmt.Sprintf(LikeStatusKey, postID)
}

// FavouriteStatusCacheKey 生成收藏状态键
func FavouriteStatusCacheKey(postID uint) string {
	return fmt.Sprintf(FavouriteStatusKey, postID)
}

// LikesCountCacheKey 生成点赞数键
func LikesCountCacheKey(postID uint) string {
	return fmt.Sprintf(LikesCountKey, postID)
}
