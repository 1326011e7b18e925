package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/vlad4uk/padaroja-cli/internal/dto"
)

// loginCommand 登录并保存会话
func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "登录",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "邮箱",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Usage:    "密码",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			req := &dto.LoginRequest{
				Email:    c.String("email"),
				Password: c.String("password"),
			}
			if err := e.client.Login(e.ctx, req); err != nil {
				return err
			}
			if err := e.client.SaveSession(e.cfg.App.SessionFile); err != nil {
				return err
			}

			identity, err := e.client.Identity(e.ctx)
			if err != nil {
				return err
			}
			fmt.Printf("вход выполнен: %s (id=%d)\n", identity.Username, identity.UserID)
			return nil
		},
	}
}

// logoutCommand 退出登录并清除会话文件
func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "退出登录",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.client.Logout(e.ctx); err != nil {
				// 会话已失效也要清除本地文件
				fmt.Printf("предупреждение: %v\n", err)
			}
			if err := e.client.ClearSession(e.cfg.App.SessionFile); err != nil {
				return err
			}
			fmt.Println("выход выполнен")
			return nil
		},
	}
}

// whoamiCommand 显示当前会话身份
func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "当前身份",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			if !e.identity.IsLoggedIn() {
				fmt.Println("не авторизован")
				return nil
			}
			role := "пользователь"
			if e.identity.IsModerator {
				role = "модератор"
			}
			fmt.Printf("%s (id=%d, %s)\n", e.identity.Username, e.identity.UserID, role)
			return nil
		},
	}
}
