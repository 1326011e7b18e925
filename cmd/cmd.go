package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"github.com/vlad4uk/padaroja-cli/internal/api"
	"github.com/vlad4uk/padaroja-cli/internal/config"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"github.com/vlad4uk/padaroja-cli/internal/model"
	"github.com/vlad4uk/padaroja-cli/internal/service"
	"github.com/vlad4uk/padaroja-cli/pkg/cache"
)

// Execute 命令行入口
func Execute() {
	app := cli.NewApp()
	app.Name = "padaroja"
	app.Usage = "клиент платформы путешествий padaroja"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件目录",
			Value:   ".",
		},
	}
	app.Commands = []*cli.Command{
		loginCommand(),
		logoutCommand(),
		whoamiCommand(),
		feedCommand(),
		commentsCommand(),
		commentCommand(),
		replyCommand(),
		deleteCommand(),
		reportCommand(),
		likeCommand(),
		favouriteCommand(),
		uploadCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env 一次调用所需的共享依赖
type env struct {
	cfg      *config.Config
	client   *api.Client
	cache    cache.Cache
	identity model.Identity
	ctx      context.Context
	cancel   context.CancelFunc
}

// setup 初始化配置、日志、客户端并恢复会话
func setup(c *cli.Context) (*env, error) {
	cfg := config.Default()
	if err := config.Init(c.String("config")); err == nil {
		cfg = config.GetConfig()
	}
	logger.InitLogger(&cfg.Log)

	client, err := api.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := client.LoadSession(cfg.App.SessionFile); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

	identity, err := client.Identity(ctx)
	if err != nil {
		logger.GetSugaredLogger().Warnf("解析会话身份失败: %v", err)
		identity = model.Anonymous
	}

	return &env{
		cfg:      cfg,
		client:   client,
		cache:    newCache(cfg),
		identity: identity,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// close 释放资源
func (e *env) close() {
	e.cancel()
	if e.cache != nil {
		e.cache.Close()
	}
	logger.Sync()
}

// newCache 按配置选择缓存后端
func newCache(cfg *config.Config) cache.Cache {
	if cfg.Cache.Type != "redis" {
		return cache.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Cache.Redis.Addr(),
		Password:     cfg.Cache.Redis.Password,
		DB:           cfg.Cache.Redis.DB,
		PoolSize:     cfg.Cache.Redis.PoolSize,
		MinIdleConns: cfg.Cache.Redis.MinIdleConns,
	})
	return cache.NewRedisCache(client)
}

// newInteraction 交互服务
func (e *env) newInteraction() *service.InteractionService {
	return service.NewInteractionService(e.client, e.cache, e.cfg.API.SettleDelay())
}

// newThread 指定游记的评论会话
func (e *env) newThread(postID uint) *service.ThreadService {
	content := service.NewContentService(e.cfg.Filter.WordsFile)
	return service.NewThreadService(e.client, content, postID, e.cfg.API.PageLimit)
}

// confirmPrompt 删除确认
func confirmPrompt(what string) func() bool {
	return func() bool {
		fmt.Printf("удалить %s? [y/N]: ", what)
		var answer string
		fmt.Scanln(&answer)
		return answer == "y" || answer == "Y"
	}
}
