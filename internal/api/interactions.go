package api

import (
	"context"
	"fmt"

	"github.com/vlad4uk/padaroja-cli/internal/dto"
)

// LikeStatus 当前用户是否点赞过该帖子
func (c *Client) LikeStatus(ctx context.Context, postID uint) (bool, error) {
	var resp dto.LikeStatusResponse
	if err := c.get(ctx, fmt.Sprintf("/api/likes/check/%d", postID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsLiked, nil
}

// Like 点赞
func (c *Client) Like(ctx context.Context, postID uint) error {
	return c.post(ctx, fmt.Sprintf("/api/likes/%d", postID), nil, nil)
}

// Unlike 取消点赞
func (c *Client) Unlike(ctx context.Context, postID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/likes/%d", postID))
}

// LikesCount 帖子的权威点赞数
// 其他用户会并发点赞，计数以服务端为准而非本地增减
func (c *Client) LikesCount(ctx context.Context, postID uint) (int, error) {
	var resp dto.LikesCountResponse
	if err := c.get(ctx, fmt.Sprintf("/api/likes/count/%d", postID), nil, &resp); err != nil {
		return 0, err
	}
	return resp.LikesCount, nil
}

// FavouriteStatus 当前用户是否收藏过该帖子
func (c *Client) FavouriteStatus(ctx context.Context, postID uint) (bool, error) {
	var resp dto.FavouriteStatusResponse
	if err := c.get(ctx, fmt.Sprintf("/api/favourites/check/%d", postID), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavourite, nil
}

// Favourite 加入收藏
func (c *Client) Favourite(ctx context.Context, postID uint) error {
	return c.post(ctx, fmt.Sprintf("/api/favourites/%d", postID), nil, nil)
}

// Unfavourite 移出收藏
func (c *Client) Unfavourite(ctx context.Context, postID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/favourites/%d", postID))
}
