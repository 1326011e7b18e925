package uploader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	cos "github.com/tencentyun/cos-go-sdk-v5"
	"github.com/vlad4uk/padaroja-cli/internal/config"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"go.uber.org/zap"
)

// 允许上传的图片扩展名
var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var (
	// ErrUnsupportedFormat 不支持的图片格式
	ErrUnsupportedFormat = errors.New("不支持的图片格式")
	// ErrNotConfigured 存储配置缺失
	ErrNotConfigured = errors.New("对象存储未配置")
)

// Uploader 游记照片直传服务
// 照片在发表游记前直接上传到对象存储，服务端只保存返回的URL
type Uploader struct {
	cfg config.COSStorage
	log *zap.SugaredLogger
}

// New 创建上传服务实例
func New(cfg config.COSStorage) *Uploader {
	return &Uploader{
		cfg: cfg,
		log: logger.GetSugaredLogger(),
	}
}

// UploadFile 上传本地文件并返回访问URL
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedExts[ext]; !ok {
		return "", ErrUnsupportedFormat
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}

	return u.Upload(ctx, ext, data)
}

// Upload 上传图片数据到腾讯云COS
// 文件名使用时间戳避免重名
func (u *Uploader) Upload(ctx context.Context, ext string, data []byte) (string, error) {
	if u.cfg.BucketURL == "" {
		return "", ErrNotConfigured
	}

	parsed, err := url.Parse(u.cfg.BucketURL)
	if err != nil {
		return "", fmt.Errorf("解析COS URL失败: %w", err)
	}

	b := &cos.BaseURL{BucketURL: parsed}
	client := cos.NewClient(b, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  u.cfg.SecretID,
			SecretKey: u.cfg.SecretKey,
		},
	})

	name := fmt.Sprintf("photos/%d%s", time.Now().UnixNano(), ext)

	if _, err := client.Object.Put(ctx, name, bytes.NewReader(data), nil); err != nil {
		u.log.Errorf("上传到腾讯云失败: %v", err)
		return "", fmt.Errorf("上传到腾讯云失败: %w", err)
	}

	base := u.cfg.URLPrefix
	if base == "" {
		base = u.cfg.BucketURL
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), name), nil
}
