package service

import "errors"

// 业务错误，由 handler 层映射为 HTTP 状态码
var (
	ErrValidation           = errors.New("请求参数无效")
	ErrAccountExists        = errors.New("账户已存在")
	ErrAccountNotFound      = errors.New("账户不存在")
	ErrCodeInvalidOrExpired = errors.New("验证码无效或已过期")
	ErrNotificationFailed   = errors.New("验证码发送失败")
	ErrCalculationNotFound  = errors.New("计算记录不存在")

	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrInvalidEmail              = errors.New("邮箱地址无效")
)
