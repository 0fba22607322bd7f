// Package sms 短信服务单元测试
package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSender_Send(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	t.Run("发送短信", func(t *testing.T) {
		err := sender.Send(ctx, "13800138000", "SMS_TEMPLATE", map[string]string{
			"reservation_no": "R20260101000001",
		})
		require.NoError(t, err)

		// 验证消息已记录
		assert.Len(t, sender.SentMessages, 1)
		msg := sender.SentMessages[0]
		assert.Equal(t, "13800138000", msg.Phone)
		assert.Equal(t, "SMS_TEMPLATE", msg.TemplateCode)
		assert.Equal(t, "R20260101000001", msg.Params["reservation_no"])
		assert.NotZero(t, msg.SentAt)
	})

	t.Run("发送多条短信", func(t *testing.T) {
		sender.Clear()

		sender.Send(ctx, "13800138001", "T1", map[string]string{"key": "val1"})
		sender.Send(ctx, "13800138002", "T2", map[string]string{"key": "val2"})
		sender.Send(ctx, "13800138003", "T3", map[string]string{"key": "val3"})

		assert.Len(t, sender.SentMessages, 3)
	})
}

func TestMockSender_SendReservationConfirm(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	err := sender.SendReservationConfirm(ctx, "13800138000", "R20260101000001", "2026-01-15")
	require.NoError(t, err)

	msg := sender.GetLastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, "13800138000", msg.Phone)
	assert.Equal(t, "reservation_confirm", msg.TemplateCode)
	assert.Equal(t, "R20260101000001", msg.Params["reservation_no"])
	assert.Equal(t, "2026-01-15", msg.Params["check_in_date"])
}

func TestMockSender_SendCancellationNotify(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	err := sender.SendCancellationNotify(ctx, "13900139000", "R20260101000002")
	require.NoError(t, err)

	msg := sender.GetLastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, "13900139000", msg.Phone)
	assert.Equal(t, "cancel_notify", msg.TemplateCode)
	assert.Equal(t, "R20260101000002", msg.Params["reservation_no"])
}

func TestMockSender_GetLastMessage(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	t.Run("空消息列表", func(t *testing.T) {
		msg := sender.GetLastMessage()
		assert.Nil(t, msg)
	})

	t.Run("有消息时返回最后一条", func(t *testing.T) {
		sender.Send(ctx, "phone1", "T1", nil)
		sender.Send(ctx, "phone2", "T2", nil)
		sender.Send(ctx, "phone3", "T3", nil)

		msg := sender.GetLastMessage()
		require.NotNil(t, msg)
		assert.Equal(t, "phone3", msg.Phone)
		assert.Equal(t, "T3", msg.TemplateCode)
	})
}

func TestMockSender_Clear(t *testing.T) {
	sender := NewMockSender()
	ctx := context.Background()

	sender.Send(ctx, "phone1", "T1", nil)
	sender.Send(ctx, "phone2", "T2", nil)

	assert.Len(t, sender.SentMessages, 2)

	sender.Clear()

	assert.Len(t, sender.SentMessages, 0)
	assert.Nil(t, sender.GetLastMessage())
}

func TestDefaultTemplates(t *testing.T) {
	// 验证默认模板存在
	assert.Contains(t, DefaultTemplates, "reservation_confirm")
	assert.Contains(t, DefaultTemplates, "cancel_notify")
	assert.Contains(t, DefaultTemplates, "payment_receipt")
}

func TestAliyunSender_SetTemplates(t *testing.T) {
	// 由于 AliyunSender 需要阿里云凭证，这里只测试 SetTemplates 逻辑
	sender := &AliyunSender{
		templates: make(map[string]string),
	}

	for k, v := range DefaultTemplates {
		sender.templates[k] = v
	}

	t.Run("设置新模板", func(t *testing.T) {
		sender.SetTemplates(map[string]string{
			"new_template": "SMS_NEW",
		})
		assert.Equal(t, "SMS_NEW", sender.templates["new_template"])
	})

	t.Run("覆盖已有模板", func(t *testing.T) {
		sender.SetTemplates(map[string]string{
			"reservation_confirm": "SMS_CUSTOM_CONFIRM",
		})
		assert.Equal(t, "SMS_CUSTOM_CONFIRM", sender.templates["reservation_confirm"])
	})
}

// TestSenderInterfaceImpl 验证接口实现
func TestSenderInterfaceImpl(t *testing.T) {
	var _ Sender = (*MockSender)(nil)
	var _ Sender = (*AliyunSender)(nil)
}
