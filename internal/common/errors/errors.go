// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown          = New(1000, "未知错误")
	ErrInvalidParams    = New(1001, "参数错误")
	ErrNotFound         = New(1002, "资源不存在")
	ErrAlreadyExists    = New(1003, "资源已存在")
	ErrDatabaseError    = New(1004, "数据库错误")
	ErrCacheError       = New(1005, "缓存错误")
	ErrInternalError    = New(1006, "内部错误")
	ErrExternalService  = New(1007, "外部服务错误")
	ErrRateLimitExceed  = New(1008, "请求过于频繁")
	ErrOperationFailed  = New(1009, "操作失败")
	ErrResourceNotFound = New(1010, "资源不存在")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrAccountDisabled  = New(2005, "账号已禁用")
	ErrPasswordError    = New(2006, "密码错误")
	ErrUserNotFound     = New(2007, "用户不存在")
	ErrUserExists       = New(2008, "用户名已存在")
	ErrSmsSendFail      = New(2009, "短信发送失败")
	ErrSmsSendTooFast   = New(2010, "短信发送过于频繁")
)

// 客人错误码 (3000-3999)
var (
	ErrGuestNotFound    = New(3000, "客人不存在")
	ErrGuestExists      = New(3001, "证件号已登记")
	ErrGuestHasStay     = New(3002, "客人存在未完结的入住记录")
	ErrIDNumberInvalid  = New(3003, "无效的证件号")
	ErrIDPhotoUploadFail = New(3004, "证件照片上传失败")
)

// 房间错误码 (4000-4999)
var (
	ErrRoomTypeNotFound  = New(4000, "房型不存在")
	ErrRoomTypeExists    = New(4001, "房型名称已存在")
	ErrRoomTypeInUse     = New(4002, "房型下存在房间，无法删除")
	ErrRoomNotFound      = New(4003, "房间不存在")
	ErrRoomNumberExists  = New(4004, "房间号已存在")
	ErrRoomNotAvailable  = New(4005, "房间不可用")
	ErrRoomOccupied      = New(4006, "房间已被预订")
	ErrNoVacantRoom      = New(4007, "该时段无可用房间")
	ErrRoomStatusInvalid = New(4008, "无效的房间状态")
)

// 预订错误码 (5000-5999)
var (
	ErrReservationNotFound   = New(5000, "预订不存在")
	ErrReservationStatusError = New(5001, "预订状态异常")
	ErrReservationConflict   = New(5002, "时段已被预订")
	ErrReservationExpired    = New(5003, "预订已过期")
	ErrReservationCancelled  = New(5004, "预订已取消")
	ErrStayRangeInvalid      = New(5005, "无效的入住时段")
	ErrCheckInCodeInvalid    = New(5006, "无效的入住码")
	ErrCompanionLimitExceed  = New(5007, "同住人数量超出限制")
)

// 账单与支付错误码 (6000-6999)
var (
	ErrBillingNotFound     = New(6000, "账单不存在")
	ErrBillingExists       = New(6001, "预订已有账单")
	ErrBillingVoided       = New(6002, "账单已作废")
	ErrBillingSettled      = New(6003, "账单已结清")
	ErrPaymentNotFound     = New(6004, "支付记录不存在")
	ErrPaymentExceedsDue   = New(6005, "支付金额超出应付余额")
	ErrPaymentAmountInvalid = New(6006, "无效的支付金额")
	ErrPaymentMethodError  = New(6007, "支付方式错误")
	ErrRefundFailed        = New(6008, "退款失败")
)

// 附加消费错误码 (7000-7999)
var (
	ErrAddonProductNotFound = New(7000, "附加商品不存在")
	ErrAddonProductOffShelf = New(7001, "附加商品已下架")
	ErrAddonOrderNotFound   = New(7002, "附加消费单不存在")
	ErrAddonOrderEmpty      = New(7003, "附加消费单没有明细")
	ErrAddonQuantityInvalid = New(7004, "无效的消费数量")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
