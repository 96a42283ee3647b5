package client

import (
	"context"
	"errors"
)

// OK 统一之后的成功码
const OK = "OK"

var (
	ErrInvalidParameter = errors.New("参数非法")
	ErrSendFailed       = errors.New("发送短信失败")
)

// Client 短信网关
//
//go:generate mockgen -source=./types.go -destination=../mocks/client.mock.go -package=smsmocks Client
type Client interface {
	Send(ctx context.Context, req SendReq) (SendResp, error)
}

// SendReq 发送请求
// 网关只支持报备过的模版，自由文本通过一个只有一个参数的透传模版发送
type SendReq struct {
	PhoneNumbers  []string
	SignName      string
	TemplateID    string
	TemplateParam map[string]string
	// Content 不走模版的网关（例如 SNS）直接发送的内容
	Content string
}

// SendResp 发送响应
type SendResp struct {
	RequestID    string
	PhoneNumbers map[string]SendRespStatus
}

type SendRespStatus struct {
	Code    string
	Message string
}
