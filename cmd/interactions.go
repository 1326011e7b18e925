package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/vlad4uk/padaroja-cli/internal/api"
	"github.com/vlad4uk/padaroja-cli/internal/service"
)

// likeCommand 点赞或取消点赞
func likeCommand() *cli.Command {
	return &cli.Command{
		Name:  "like",
		Usage: "点赞/取消点赞",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			interaction := e.newInteraction()
			postID := c.Uint("post")
			if _, err := interaction.Hydrate(e.ctx, postID); err != nil {
				return err
			}

			st, err := interaction.ToggleLike(e.ctx, postID)
			if err != nil {
				if errors.Is(err, api.ErrUnauthenticated) {
					return fmt.Errorf("сессия истекла, выполните login")
				}
				if errors.Is(err, service.ErrActionPending) {
					return fmt.Errorf("предыдущее действие ещё обрабатывается")
				}
				return err
			}

			if st.Liked {
				fmt.Printf("лайк поставлен, всего лайков: %d\n", st.LikesCount)
			} else {
				fmt.Printf("лайк снят, всего лайков: %d\n", st.LikesCount)
			}
			return nil
		},
	}
}

// favouriteCommand 收藏或取消收藏
func favouriteCommand() *cli.Command {
	return &cli.Command{
		Name:    "favourite",
		Aliases: []string{"fav"},
		Usage:   "收藏/取消收藏",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			interaction := e.newInteraction()
			postID := c.Uint("post")
			if _, err := interaction.Hydrate(e.ctx, postID); err != nil {
				return err
			}

			st, err := interaction.ToggleFavourite(e.ctx, postID)
			if err != nil {
				if errors.Is(err, api.ErrUnauthenticated) {
					return fmt.Errorf("сессия истекла, выполните login")
				}
				return err
			}

			if st.Favourited {
				fmt.Println("добавлено в избранное")
			} else {
				fmt.Println("убрано из избранного")
			}
			return nil
		},
	}
}
