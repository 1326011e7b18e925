package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/vlad4uk/padaroja-cli/internal/thread"
)

// commentsCommand 浏览游记的评论树
func commentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "comments",
		Usage: "评论树",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
			&cli.BoolFlag{Name: "expand", Aliases: []string{"x"}, Usage: "展开所有回复"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			session := e.newThread(c.Uint("post"))
			if err := session.Load(e.ctx); err != nil {
				return err
			}

			if session.Len() == 0 {
				fmt.Println("комментариев пока нет")
				return nil
			}

			if c.Bool("expand") {
				for _, root := range session.Roots() {
					if _, err := session.ToggleReplies(e.ctx, root.ID); err != nil {
						return err
					}
				}
			}

			session.Walk(func(n *thread.Node, depth int) bool {
				if depth > 0 && !c.Bool("expand") {
					return false
				}
				indent := strings.Repeat("  ", thread.IndentDepth(depth))
				fmt.Printf("%s#%d %s: %s\n", indent, n.ID, n.User.Username, n.DisplayContent())
				return true
			})
			return nil
		},
	}
}

// commentCommand 发表顶级评论
func commentCommand() *cli.Command {
	return &cli.Command{
		Name:  "comment",
		Usage: "发表评论",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
			&cli.StringFlag{Name: "text", Aliases: []string{"m"}, Required: true, Usage: "评论内容"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			session := e.newThread(c.Uint("post"))
			if err := session.Load(e.ctx); err != nil {
				return err
			}

			created, err := session.Create(e.ctx, e.identity, c.String("text"))
			if err != nil {
				return err
			}
			fmt.Printf("комментарий #%d опубликован\n", created.ID)
			return nil
		},
	}
}

// replyCommand 回复评论
// 回复嵌套评论时自动挂到所在顶级评论下
func replyCommand() *cli.Command {
	return &cli.Command{
		Name:  "reply",
		Usage: "回复评论",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "post", Required: true, Usage: "游记id"},
			&cli.UintFlag{Name: "to", Required: true, Usage: "目标评论id"},
			&cli.StringFlag{Name: "text", Aliases: []string{"m"}, Required: true, Usage: "回复内容"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			session := e.newThread(c.Uint("post"))
			if err := session.Load(e.ctx); err != nil {
				return err
			}

			created, err := session.Reply(e.ctx, e.identity, c.Uint("to"), c.String("text"))
			if err != nil {
				return err
			}
			fmt.Printf("ответ #%d опубликован\n", created.ID)
			return nil
		},
	}
}
