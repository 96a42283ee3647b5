package sms

import (
	"context"
	"fmt"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"gitee.com/autopuzzle/notification-center/internal/service/provider/sms/client"
)

// DefaultContentParam 透传模版里承载正文的参数名
const DefaultContentParam = "content"

// 网关错误码对应的失败原因，数字码来自老的短信面板，其余是阿里云和腾讯云的常见错误码
var codeReasons = map[string]string{
	"1":  "Invalid username/password",
	"2":  "User is restricted/limited",
	"3":  "Credit insufficient",
	"4":  "Invalid pattern/bodyId",
	"5":  "Invalid recipient number",
	"11": "Rate limit exceeded or service temporarily unavailable",

	"isv.ACCOUNT_ABNORMAL":       "User is restricted/limited",
	"isv.AMOUNT_NOT_ENOUGH":      "Credit insufficient",
	"isv.SMS_TEMPLATE_ILLEGAL":   "Invalid pattern/bodyId",
	"isv.MOBILE_NUMBER_ILLEGAL":  "Invalid recipient number",
	"isv.BUSINESS_LIMIT_CONTROL": "Rate limit exceeded or service temporarily unavailable",

	"AuthFailure.SecretIdNotFound":                       "Invalid username/password",
	"FailedOperation.InsufficientBalanceInSmsPackage":    "Credit insufficient",
	"FailedOperation.TemplateIncorrectOrUnapproved":      "Invalid pattern/bodyId",
	"InvalidParameterValue.IncorrectPhoneNumber":         "Invalid recipient number",
	"LimitExceeded.PhoneNumberDailyLimit":                "Rate limit exceeded or service temporarily unavailable",
	"LimitExceeded.PhoneNumberThirtySecondLimit":         "Rate limit exceeded or service temporarily unavailable",
	"FailedOperation.PhoneNumberInBlacklist":             "User is restricted/limited",
	"UnauthorizedOperation.SmsSdkAppIdVerifyFail":        "Invalid username/password",
	"FailedOperation.SignatureIncorrectOrUnapproved":     "Invalid pattern/bodyId",
	"InvalidParameterValue.TemplateParameterFormatError": "Invalid pattern/bodyId",
}

// Reason 网关错误码转换成可读的失败原因
func Reason(code string) string {
	if r, ok := codeReasons[code]; ok {
		return r
	}
	return fmt.Sprintf("SMS sending failed (Error code: %s)", code)
}

type Config struct {
	SignName   string `yaml:"signName"`
	TemplateID string `yaml:"templateId"`
	// ContentParam 为空时使用 DefaultContentParam
	ContentParam string `yaml:"contentParam"`
}

var _ provider.Provider = (*smsProvider)(nil)

// smsProvider SMS供应商
type smsProvider struct {
	name   string
	client client.Client
	cfg    Config
}

// NewSMSProvider SMS供应商
func NewSMSProvider(name string, c client.Client, cfg Config) provider.Provider {
	if cfg.ContentParam == "" {
		cfg.ContentParam = DefaultContentParam
	}
	return &smsProvider{
		name:   name,
		client: c,
		cfg:    cfg,
	}
}

// Send 发送短信
func (p *smsProvider) Send(ctx context.Context, msg domain.Message) error {
	phone, err := domain.NormalizeAddress(domain.ChannelSMS, msg.Recipient)
	if err != nil {
		return err
	}

	resp, err := p.client.Send(ctx, client.SendReq{
		PhoneNumbers:  []string{phone},
		SignName:      p.cfg.SignName,
		TemplateID:    p.cfg.TemplateID,
		TemplateParam: map[string]string{p.cfg.ContentParam: msg.Content},
		Content:       msg.Content,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errs.ErrSendFailed, p.name, err)
	}

	status, ok := resp.PhoneNumbers[phone]
	if !ok {
		return fmt.Errorf("%w: %s 没有返回 %s 的状态", errs.ErrSendFailed, p.name, phone)
	}
	if status.Code != client.OK {
		return fmt.Errorf("%w: %s", errs.ErrSendFailed, Reason(status.Code))
	}
	return nil
}
