// Package utils 通用工具函数单元测试
package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNo(t *testing.T) {
	for _, prefix := range []string{"R", "B", "A", ""} {
		orderNo := GenerateOrderNo(prefix)

		// 前缀 + 14位时间戳 + 6位随机数
		assert.Len(t, orderNo, len(prefix)+20)
		assert.True(t, strings.HasPrefix(orderNo, prefix))
		assert.True(t, strings.HasPrefix(orderNo[len(prefix):], time.Now().Format("20060102")))
	}
}

func TestGenerateOrderNo_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		orderNo := GenerateOrderNo("B")
		assert.False(t, seen[orderNo])
		seen[orderNo] = true
	}
}

func TestGenerateRandomNumber(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		s := GenerateRandomNumber(length)
		assert.Len(t, s, length)
		for _, c := range s {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"13900139001", true},
		{"18612345678", true},
		{"12345678901", false}, // 第二位不合法
		{"1390013900", false},  // 少一位
		{"139001390012", false},
		{"abcdefghijk", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidatePhone(tt.phone), tt.phone)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("guest@example.com"))
	assert.True(t, ValidateEmail("front.desk+01@hotel.com.cn"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, "大床房", *StringPtr("大床房"))
	assert.Equal(t, 2, *IntPtr(2))
	assert.Equal(t, int64(42), *Int64Ptr(42))
	assert.Equal(t, 388.5, *Float64Ptr(388.5))
	assert.Equal(t, true, *BoolPtr(true))

	now := time.Now()
	assert.Equal(t, now, *TimePtr(now))
}

func TestSafeGetters(t *testing.T) {
	assert.Equal(t, "", SafeString(nil))
	assert.Equal(t, "备注", SafeString(StringPtr("备注")))
	assert.Equal(t, 0, SafeInt(nil))
	assert.Equal(t, 3, SafeInt(IntPtr(3)))
	assert.Equal(t, int64(0), SafeInt64(nil))
	assert.Equal(t, int64(7), SafeInt64(Int64Ptr(7)))
}

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"默认值", 0, 0, 1, 10},
		{"负数", -1, -5, 1, 10},
		{"正常", 2, 20, 2, 20},
		{"超出上限", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pagination{Page: tt.page, PageSize: tt.pageSize}
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestPagination_OffsetAndPages(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 20, Total: 45}
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, 20, p.GetLimit())
	assert.Equal(t, 3, p.GetTotalPages())

	p = Pagination{Page: 1, PageSize: 10, Total: 0}
	assert.Equal(t, 0, p.GetTotalPages())

	p = Pagination{Page: 1, PageSize: 10, Total: 100}
	assert.Equal(t, 10, p.GetTotalPages())
}
