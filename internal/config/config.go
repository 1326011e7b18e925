package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Storage StorageConfig `mapstructure:"storage"`
	Filter  FilterConfig  `mapstructure:"filter"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string `mapstructure:"name"`
	SessionFile string `mapstructure:"session_file"`
}

// APIConfig 服务端接口配置
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Retries        int    `mapstructure:"retries"`
	PageLimit      int    `mapstructure:"page_limit"`
	DebounceMs     int    `mapstructure:"debounce_ms"`
	SettleDelayMs  int    `mapstructure:"settle_delay_ms"`
	RefreshCron    string `mapstructure:"refresh_cron"`
}

// Timeout 请求超时时间
func (c *APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce 搜索去抖静默窗口
func (c *APIConfig) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// SettleDelay 乐观更新锁的释放延迟
func (c *APIConfig) SettleDelay() time.Duration {
	if c.SettleDelayMs < 0 {
		return 0
	}
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Type  string      `mapstructure:"type"` // memory 或 redis
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

// Addr 获取Redis地址
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig 照片上传存储配置
type StorageConfig struct {
	COS COSStorage `mapstructure:"cos"`
}

// COSStorage 腾讯云COS存储配置
type COSStorage struct {
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	BucketURL string `mapstructure:"bucket_url"`
	URLPrefix string `mapstructure:"url_prefix"`
}

// FilterConfig 内容过滤配置
type FilterConfig struct {
	WordsFile string `mapstructure:"words_file"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
	// 配置Viper实例
	viperInstance *viper.Viper
)

// Init 初始化配置
func Init(configPath string) error {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("padaroja")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config failed: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return fmt.Errorf("unmarshal config failed: %w", err)
	}

	// 监听配置文件变化，变化时重新解析
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		var updated Config
		if err := v.Unmarshal(&updated); err == nil {
			GlobalConfig = &updated
		}
	})

	GlobalConfig = &config
	viperInstance = v
	return nil
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	return GlobalConfig
}

// Default 默认配置
// 未提供配置文件以及测试环境下使用
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "padaroja",
			SessionFile: ".padaroja_session",
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 15,
			Retries:        3,
			PageLimit:      100,
			DebounceMs:     500,
			SettleDelayMs:  300,
			RefreshCron:    "0 */1 * * * *",
		},
		Log: LogConfig{
			Level:  "info",
			Stdout: true,
		},
		Cache: CacheConfig{
			Type: "memory",
		},
	}
}
