package errs

import (
	"errors"
)

// 定义统一的错误类型
var (
	ErrInvalidParameter = errors.New("参数错误")
	ErrUnauthenticated  = errors.New("未登录或令牌无效")
	ErrPermissionDenied = errors.New("没有权限")

	ErrNoRecipients     = errors.New("没有可用的接收者")
	ErrInvalidRecipient = errors.New("接收者地址非法")
	ErrMissingSubject   = errors.New("邮件主题不能为空")
	ErrUnknownRecipient = errors.New("接收用户不存在")

	ErrLogNotFound       = errors.New("通知记录不存在")
	ErrLogStatusConflict = errors.New("通知记录状态冲突")
	ErrLogIDGenerate     = errors.New("通知ID生成失败")
	ErrLogDuplicate      = errors.New("通知记录主键冲突")

	ErrTemplateNotFound        = errors.New("模板不存在")
	ErrTemplateInactive        = errors.New("模板未启用")
	ErrTemplateChannelMismatch = errors.New("模板渠道不匹配")

	ErrScheduleNotFound      = errors.New("定时通知不存在")
	ErrScheduleNotCancelable = errors.New("定时通知已经开始发送，无法取消")
	ErrInvalidScheduleTime   = errors.New("定时时间非法")

	ErrSendFailed          = errors.New("发送失败")
	ErrSendTimeout         = errors.New("发送超时")
	ErrNoAvailableProvider = errors.New("无可用供应商")
	ErrNoAvailableChannel  = errors.New("无可用渠道")
)
