// Package reservation 提供预订相关服务
package reservation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmvillareal/hotel-backoffice/internal/common/qrcode"
)

// CodeService 入住码服务
type CodeService struct {
	generator *qrcode.Generator
}

// NewCodeService 创建入住码服务
func NewCodeService() *CodeService {
	return &CodeService{
		generator: qrcode.NewGenerator(qrcode.WithSize(256), qrcode.WithRecoveryLevel(qrcode.Medium)),
	}
}

// GenerateCheckInCode 生成入住码
// 格式：C + 19位十六进制，前台扫码办理入住
func (s *CodeService) GenerateCheckInCode() string {
	bytes := make([]byte, 10)
	if _, err := rand.Read(bytes); err != nil {
		// 降级使用时间戳
		return fmt.Sprintf("C%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("C%s", hex.EncodeToString(bytes)[:19])
}

// GenerateCheckInQR 生成入住二维码（Data URL）
func (s *CodeService) GenerateCheckInQR(reservationNo, checkInCode string) (string, error) {
	content := fmt.Sprintf("/api/admin/reservations/check-in/%s?code=%s", reservationNo, checkInCode)
	return s.generator.GenerateDataURL(content)
}

// ValidateCheckInCode 验证入住码格式
func (s *CodeService) ValidateCheckInCode(code string) bool {
	if len(code) < 10 || len(code) > 20 {
		return false
	}
	for _, c := range code {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || c == 'C') {
			return false
		}
	}
	return true
}
