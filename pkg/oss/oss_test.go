// Package oss 对象存储单元测试
package oss

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

func TestMockUploader_Upload(t *testing.T) {
	uploader := NewMockUploader()
	ctx := context.Background()

	t.Run("上传证件照片", func(t *testing.T) {
		url, err := uploader.Upload(ctx, "guest-id/2026/08/29/abc123.jpg", bytes.NewReader(jpegHeader))
		require.NoError(t, err)
		assert.Equal(t, "https://mock-oss.example.com/guest-id/2026/08/29/abc123.jpg", url)
		assert.Equal(t, jpegHeader, uploader.Files["guest-id/2026/08/29/abc123.jpg"])
	})

	t.Run("覆盖同键对象", func(t *testing.T) {
		_, err := uploader.Upload(ctx, "guest-id/dup.png", bytes.NewReader([]byte("v1")))
		require.NoError(t, err)
		_, err = uploader.Upload(ctx, "guest-id/dup.png", bytes.NewReader([]byte("v2")))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), uploader.Files["guest-id/dup.png"])
	})
}

func TestMockUploader_Delete(t *testing.T) {
	uploader := NewMockUploader()
	ctx := context.Background()

	_, err := uploader.Upload(ctx, "guest-id/old.jpg", bytes.NewReader(jpegHeader))
	require.NoError(t, err)

	require.NoError(t, uploader.Delete(ctx, "guest-id/old.jpg"))
	assert.NotContains(t, uploader.Files, "guest-id/old.jpg")

	// 删除不存在的对象不报错
	assert.NoError(t, uploader.Delete(ctx, "guest-id/missing.jpg"))
}

func TestMockUploader_GetSignedURL(t *testing.T) {
	uploader := NewMockUploader()

	url, err := uploader.GetSignedURL("guest-id/private.jpg", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "https://mock-oss.example.com/guest-id/private.jpg")
	assert.Contains(t, url, "expires=")
}

func TestGenerateObjectKey(t *testing.T) {
	t.Run("键结构", func(t *testing.T) {
		key := GenerateObjectKey("guest-id", "passport.jpg")
		assert.True(t, strings.HasPrefix(key, "guest-id/"))
		assert.True(t, strings.HasSuffix(key, ".jpg"))
		assert.Contains(t, key, time.Now().Format("2006/01/02"))
	})

	t.Run("同名文件键不冲突", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			key := GenerateObjectKey("guest-id", "身份证.png")
			assert.False(t, seen[key])
			seen[key] = true
		}
	})

	t.Run("无扩展名", func(t *testing.T) {
		key := GenerateObjectKey("guest-id", "scan")
		assert.True(t, strings.HasPrefix(key, "guest-id/"))
		assert.False(t, strings.Contains(key, "."))
	})
}

func TestValidateIDPhoto(t *testing.T) {
	t.Run("JPEG", func(t *testing.T) {
		assert.NoError(t, ValidateIDPhoto("passport.jpg", bytes.NewReader(jpegHeader)))
	})

	t.Run("PNG", func(t *testing.T) {
		assert.NoError(t, ValidateIDPhoto("身份证正面.PNG", bytes.NewReader(pngHeader)))
	})

	t.Run("扩展名不在白名单", func(t *testing.T) {
		err := ValidateIDPhoto("scan.pdf", bytes.NewReader([]byte("%PDF-1.4")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "不支持的图片格式")
	})

	t.Run("扩展名伪装", func(t *testing.T) {
		err := ValidateIDPhoto("fake.jpg", strings.NewReader("<html><body>not an image</body></html>"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "不是有效的图片")
	})

	t.Run("空文件", func(t *testing.T) {
		err := ValidateIDPhoto("empty.jpg", bytes.NewReader(nil))
		assert.Error(t, err)
	})
}

func TestAliyunURL(t *testing.T) {
	t.Run("默认域名", func(t *testing.T) {
		u := &AliyunUploader{config: &AliyunConfig{
			Endpoint:   "oss-cn-hangzhou.aliyuncs.com",
			BucketName: "hotel-backoffice",
		}}
		assert.Equal(t,
			"https://hotel-backoffice.oss-cn-hangzhou.aliyuncs.com/guest-id/a.jpg",
			u.GetURL("guest-id/a.jpg"))
	})

	t.Run("自定义域名加基础路径", func(t *testing.T) {
		u := &AliyunUploader{config: &AliyunConfig{
			Endpoint:   "oss-cn-hangzhou.aliyuncs.com",
			BucketName: "hotel-backoffice",
			Domain:     "https://static.example.com/",
			BasePath:   "uploads",
		}}
		assert.Equal(t,
			"https://static.example.com/uploads/guest-id/a.jpg",
			u.GetURL("guest-id/a.jpg"))
	})
}
