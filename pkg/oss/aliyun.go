// Package oss 对象存储，承载客人证件照片等附件
package oss

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// Uploader 对象存储客户端接口
type Uploader interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error)
	Delete(ctx context.Context, objectKey string) error
	GetURL(objectKey string) string
	GetSignedURL(objectKey string, expires time.Duration) (string, error)
}

// AliyunConfig 阿里云 OSS 配置
type AliyunConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	Domain          string // 自定义域名（可选）
	BasePath        string // 对象键统一前缀，如 "uploads/"
}

// AliyunUploader 阿里云 OSS 上传器
type AliyunUploader struct {
	bucket *oss.Bucket
	config *AliyunConfig
}

// NewAliyunUploader 创建阿里云 OSS 上传器
func NewAliyunUploader(config *AliyunConfig) (*AliyunUploader, error) {
	client, err := oss.New(config.Endpoint, config.AccessKeyID, config.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("创建 OSS 客户端失败: %w", err)
	}

	bucket, err := client.Bucket(config.BucketName)
	if err != nil {
		return nil, fmt.Errorf("获取 Bucket 失败: %w", err)
	}

	return &AliyunUploader{
		bucket: bucket,
		config: config,
	}, nil
}

// Upload 上传文件并返回访问 URL
func (u *AliyunUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	if err := u.bucket.PutObject(u.fullKey(objectKey), reader); err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}
	return u.GetURL(objectKey), nil
}

// Delete 删除文件
func (u *AliyunUploader) Delete(ctx context.Context, objectKey string) error {
	return u.bucket.DeleteObject(u.fullKey(objectKey))
}

// GetURL 获取文件 URL
func (u *AliyunUploader) GetURL(objectKey string) string {
	fullKey := u.fullKey(objectKey)
	if u.config.Domain != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(u.config.Domain, "/"), fullKey)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, fullKey)
}

// GetSignedURL 获取带签名的临时 URL
// 证件照片桶不开公共读，后台查看走签名链接
func (u *AliyunUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return u.bucket.SignURL(u.fullKey(objectKey), oss.HTTPGet, int64(expires.Seconds()))
}

func (u *AliyunUploader) fullKey(objectKey string) string {
	if u.config.BasePath == "" {
		return objectKey
	}
	return path.Join(u.config.BasePath, objectKey)
}

// GenerateObjectKey 生成对象键：前缀/日期/随机摘要.扩展名
func GenerateObjectKey(prefix, filename string) string {
	now := time.Now()
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%d", filename, now.UnixNano())))
	name := hex.EncodeToString(sum[:])[:16]
	return fmt.Sprintf("%s/%s/%s%s", prefix, now.Format("2006/01/02"), name, path.Ext(filename))
}

// ValidateIDPhoto 校验证件照片，扩展名白名单加文件头嗅探
func ValidateIDPhoto(filename string, reader io.Reader) error {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return fmt.Errorf("不支持的图片格式: %s", ext)
	}

	header := make([]byte, 512)
	n, err := reader.Read(header)
	if err != nil && err != io.EOF {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(header[:n]), "image/") {
		return fmt.Errorf("文件不是有效的图片")
	}
	return nil
}

// MockUploader 内存实现，凭证未配置或单元测试时使用
type MockUploader struct {
	Files map[string][]byte
}

// NewMockUploader 创建模拟上传器
func NewMockUploader() *MockUploader {
	return &MockUploader{
		Files: make(map[string][]byte),
	}
}

// Upload 模拟上传
func (u *MockUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.Files[objectKey] = data
	return u.GetURL(objectKey), nil
}

// Delete 模拟删除
func (u *MockUploader) Delete(ctx context.Context, objectKey string) error {
	delete(u.Files, objectKey)
	return nil
}

// GetURL 获取模拟 URL
func (u *MockUploader) GetURL(objectKey string) string {
	return fmt.Sprintf("https://mock-oss.example.com/%s", objectKey)
}

// GetSignedURL 获取模拟签名 URL
func (u *MockUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("%s?expires=%d", u.GetURL(objectKey), time.Now().Add(expires).Unix()), nil
}
