package service

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/importcjj/sensitive"
	"github.com/microcosm-cc/bluemonday"
	"github.com/vlad4uk/padaroja-cli/internal/logger"
	"go.uber.org/zap"
)

// ContentService 内容处理服务
// 负责提交前的校验、敏感词过滤和展示前的HTML清理
type ContentService struct {
	validate *validator.Validate
	filter   *sensitive.Filter
	policy   *bluemonday.Policy
	logger   *zap.SugaredLogger
}

// NewContentService 创建内容处理服务实例
// wordsFile为空时跳过敏感词装载，只做校验和HTML清理
func NewContentService(wordsFile string) *ContentService {
	s := &ContentService{
		validate: validator.New(),
		filter:   sensitive.New(),
		policy:   bluemonday.StrictPolicy(),
		logger:   logger.GetSugaredLogger(),
	}
	if wordsFile != "" {
		if err := s.loadWordsFromFile(wordsFile); err != nil {
			s.logger.Warnf("加载敏感词失败: %v", err)
		}
	}
	return s
}

// loadWordsFromFile 从文件加载Base64编码的敏感词
func (s *ContentService) loadWordsFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Base64解码
		decoded, err := base64.StdEncoding.DecodeString(line)
		if err != nil {
			s.logger.Warnf("Base64解码敏感词失败: %v, 原文: %s", err, line)
			continue
		}

		word := strings.TrimSpace(string(decoded))
		if word == "" {
			continue
		}
		s.filter.AddWord(word)
	}

	return scanner.Err()
}

// Validate 校验请求结构体
func (s *ContentService) Validate(i interface{}) error {
	if err := s.validate.Struct(i); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("%s", formatValidationError(errs))
		}
		return err
	}
	return nil
}

// Filter 提交前过滤评论内容
// 敏感词替换为星号，内容本身不做HTML清理，服务端负责存储侧过滤
func (s *ContentService) Filter(content string) string {
	return s.filter.Replace(content, '*')
}

// Sanitize 展示前清理内容中的HTML标签
func (s *ContentService) Sanitize(content string) string {
	return s.policy.Sanitize(content)
}

// formatValidationError 格式化第一个校验错误
func formatValidationError(errs validator.ValidationErrors) string {
	msgMap := map[string]string{
		"required": "不能为空",
		"min":      "长度不能小于%v",
		"max":      "长度不能大于%v",
		"email":    "必须是有效的邮箱地址",
	}

	fieldMap := map[string]string{
		"Content":  "评论内容",
		"Reason":   "举报原因",
		"Email":    "邮箱",
		"Password": "密码",
	}

	firstErr := errs[0]

	fieldName := fieldMap[firstErr.Field()]
	if fieldName == "" {
		fieldName = firstErr.Field()
	}

	msgTemplate := msgMap[firstErr.Tag()]
	if msgTemplate == "" {
		msgTemplate = "验证失败"
	}

	if firstErr.Param() != "" && strings.Contains(msgTemplate, "%v") {
		return fieldName + fmt.Sprintf(msgTemplate, firstErr.Param())
	}

	return fieldName + msgTemplate
}
