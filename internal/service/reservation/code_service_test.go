package reservation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeService_GenerateCheckInCode(t *testing.T) {
	svc := NewCodeService()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := svc.GenerateCheckInCode()
		assert.True(t, strings.HasPrefix(code, "C"))
		assert.Len(t, code, 20)
		assert.True(t, svc.ValidateCheckInCode(code))
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestCodeService_ValidateCheckInCode(t *testing.T) {
	svc := NewCodeService()

	assert.True(t, svc.ValidateCheckInCode("Cabcdef0123456789"))
	assert.False(t, svc.ValidateCheckInCode("short"))
	assert.False(t, svc.ValidateCheckInCode("C"+strings.Repeat("0", 25)))
	assert.False(t, svc.ValidateCheckInCode("Cabcdef01234567ZZ"))
}

func TestCodeService_GenerateCheckInQR(t *testing.T) {
	svc := NewCodeService()

	qr, err := svc.GenerateCheckInQR("R20260829001", "Cabcdef0123456789")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}
