package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vlad4uk/padaroja-cli/internal/model"
	"github.com/vlad4uk/padaroja-cli/internal/service"
)

// feedCommand 信息流浏览
// --watch 模式下周期性刷新点赞数
func feedCommand() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "信息流",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "按标题搜索",
			},
			&cli.StringFlag{
				Name:    "tags",
				Aliases: []string{"t"},
				Usage:   "按标签过滤，逗号分隔",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "持续刷新点赞数",
			},
			&cli.UintFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "只看指定用户的游记，0为当前用户",
			},
			&cli.BoolFlag{
				Name:  "mine",
				Usage: "只看自己的游记",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			feed := service.NewFeedService(e.client, e.cache, e.cfg.API.Debounce())
			defer feed.Stop()

			var posts []model.Post
			if c.Bool("mine") || c.IsSet("user") {
				posts, err = e.client.UserPosts(e.ctx, c.Uint("user"))
			} else {
				posts, err = feed.Fetch(e.ctx, c.String("search"), c.String("tags"))
			}
			if err != nil {
				return err
			}

			if len(posts) == 0 {
				fmt.Println("ничего не найдено")
				return nil
			}
			for _, p := range posts {
				tags := ""
				if len(p.Tags) > 0 {
					tags = " [" + strings.Join(p.Tags, ", ") + "]"
				}
				fmt.Printf("#%d %s — %s, лайков: %d%s\n", p.ID, p.Title, p.UserName, p.LikesCount, tags)
			}

			if !c.Bool("watch") {
				return nil
			}

			interaction := e.newInteraction()
			refresh := service.NewRefreshService(interaction, e.cache)
			for _, p := range posts {
				refresh.Watch(p.ID)
			}
			if err := refresh.Start(e.cfg.API.RefreshCron); err != nil {
				return err
			}
			defer refresh.Stop()

			fmt.Println("наблюдение за лайками, ctrl+c для выхода")
			<-e.ctx.Done()
			return nil
		},
	}
}

// deleteCommand 删除游记或评论
func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "删除游记或评论",
		Subcommands: []*cli.Command{
			{
				Name:  "post",
				Usage: "删除游记",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true, Usage: "游记id"},
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "跳过确认"},
				},
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}
					defer e.close()

					feed := service.NewFeedService(e.client, e.cache, e.cfg.API.Debounce())
					defer feed.Stop()
					if _, err := feed.Fetch(e.ctx, "", ""); err != nil {
						return err
					}

					confirm := confirmPrompt(fmt.Sprintf("запись #%d", c.Uint("id")))
					if c.Bool("yes") {
						confirm = nil
					}
					if err := feed.DeletePost(e.ctx, e.identity, c.Uint("id"), confirm); err != nil {
						return err
					}
					fmt.Println("запись удалена")
					return nil
				},
			},
			{
				Name:  "comment",
				Usage: "删除评论",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
					&cli.UintFlag{Name: "id", Required: true, Usage: "评论id"},
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "跳过确认"},
				},
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}
					defer e.close()

					thread := e.newThread(c.Uint("post"))
					if err := thread.Load(e.ctx); err != nil {
						return err
					}

					confirm := confirmPrompt(fmt.Sprintf("комментарий #%d", c.Uint("id")))
					if c.Bool("yes") {
						confirm = nil
					}
					if err := thread.Delete(e.ctx, e.identity, c.Uint("id"), confirm); err != nil {
						return err
					}
					fmt.Println("комментарий удалён")
					return nil
				},
			},
		},
	}
}

// reportCommand 举报游记或评论
func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "举报游记或评论",
		Subcommands: []*cli.Command{
			{
				Name:  "post",
				Usage: "举报游记",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "id", Required: true, Usage: "游记id"},
					&cli.StringFlag{Name: "reason", Aliases: []string{"r"}, Required: true, Usage: "举报原因"},
				},
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}
					defer e.close()

					feed := service.NewFeedService(e.client, e.cache, e.cfg.API.Debounce())
					defer feed.Stop()
					if err := feed.ReportPost(e.ctx, e.identity, c.Uint("id"), c.String("reason")); err != nil {
						return err
					}
					fmt.Println("жалоба отправлена")
					return nil
				},
			},
			{
				Name:  "comment",
				Usage: "举报评论",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
					&cli.UintFlag{Name: "id", Required: true, Usage: "评论id"},
					&cli.StringFlag{Name: "reason", Aliases: []string{"r"}, Required: true, Usage: "举报原因"},
				},
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}
					defer e.close()

					thread := e.newThread(c.Uint("post"))
					if err := thread.Report(e.ctx, e.identity, c.Uint("id"), c.String("reason")); err != nil {
						return err
					}
					fmt.Println("жалоба отправлена")
					return nil
				},
			},
		},
	}
}
