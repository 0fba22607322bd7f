// Package qrcode 二维码生成功能单元测试
package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_Options(t *testing.T) {
	gen := NewGenerator()
	assert.Equal(t, 256, gen.size)
	assert.Equal(t, Medium, gen.recoveryLevel)

	gen = NewGenerator(WithSize(512), WithRecoveryLevel(High))
	assert.Equal(t, 512, gen.size)
	assert.Equal(t, High, gen.recoveryLevel)
}

func TestGenerator_GeneratePNG(t *testing.T) {
	gen := NewGenerator()

	tests := []struct {
		name    string
		content string
	}{
		{"入住码", "C1a2b3c4d5e6f7a8b9c"},
		{"URL", "https://example.com/checkin?code=C1a2b3c4d5e6f7a8b9c"},
		{"中文", "前台核销"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := gen.GeneratePNG(tt.content)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			bounds := img.Bounds()
			assert.Equal(t, bounds.Dx(), bounds.Dy())
		})
	}
}

func TestGenerator_GeneratePNG_EmptyContent(t *testing.T) {
	gen := NewGenerator()

	// 底层库不支持空内容
	_, err := gen.GeneratePNG("")
	assert.Error(t, err)
}

func TestGenerator_GenerateDataURL(t *testing.T) {
	gen := NewGenerator()

	dataURL, err := gen.GenerateDataURL("C1a2b3c4d5e6f7a8b9c")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	b64 := strings.TrimPrefix(dataURL, "data:image/png;base64,")
	data, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestGenerator_WriteTo(t *testing.T) {
	gen := NewGenerator()

	var buf bytes.Buffer
	require.NoError(t, gen.WriteTo("C1a2b3c4d5e6f7a8b9c", &buf))

	_, err := png.Decode(&buf)
	require.NoError(t, err)
}

func TestGenerator_RecoveryLevels(t *testing.T) {
	for _, level := range []RecoveryLevel{Low, Medium, High, Highest} {
		gen := NewGenerator(WithRecoveryLevel(level))
		data, err := gen.GeneratePNG("C1a2b3c4d5e6f7a8b9c")
		require.NoError(t, err)
		_, err = png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
	}
}

func TestGenerator_DeterministicOutput(t *testing.T) {
	gen := NewGenerator()

	first, err := gen.GeneratePNG("C1a2b3c4d5e6f7a8b9c")
	require.NoError(t, err)
	second, err := gen.GeneratePNG("C1a2b3c4d5e6f7a8b9c")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := gen.GeneratePNG("Cf9e8d7c6b5a4f3e2d1")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func BenchmarkGeneratePNG(b *testing.B) {
	gen := NewGenerator()
	for i := 0; i < b.N; i++ {
		_, _ = gen.GeneratePNG("C1a2b3c4d5e6f7a8b9c")
	}
}
