package uploader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vlad4uk/padaroja-cli/internal/config"
)

// TestUploadFileRejectsUnsupportedFormat 非图片扩展名直接拒绝
func TestUploadFileRejectsUnsupportedFormat(t *testing.T) {
	u := New(config.COSStorage{BucketURL: "https://bucket.cos.example.com"})
	_, err := u.UploadFile(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestUploadWithoutBucket 未配置存储时拒绝上传
func TestUploadWithoutBucket(t *testing.T) {
	u := New(config.COSStorage{})
	_, err := u.Upload(context.Background(), ".jpg", []byte{0xff, 0xd8})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
