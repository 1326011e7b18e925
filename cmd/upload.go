package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/vlad4uk/padaroja-cli/internal/uploader"
)

// uploadCommand 上传游记照片到对象存储
func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "上传照片",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "本地图片路径"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.close()

			up := uploader.New(e.cfg.Storage.COS)
			url, err := up.UploadFile(e.ctx, c.String("file"))
			if err != nil {
				return err
			}
			fmt.Println(url)
			return nil
		},
	}
}
