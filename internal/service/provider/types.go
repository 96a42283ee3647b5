package provider

import (
	"context"

	"gitee.com/autopuzzle/notification-center/internal/domain"
)

// Provider 供应商接口
//
//go:generate mockgen -source=./types.go -destination=./mocks/provider.mock.go -package=providermocks Provider,Selector,SelectorBuilder
type Provider interface {
	// Send 发送消息，返回的错误就是给人看的失败原因
	Send(ctx context.Context, msg domain.Message) error
}

// Selector 供应商选择器接口
type Selector interface {
	// Next 获取下一个供应商，无可用供应商时返回错误
	Next(ctx context.Context, msg domain.Message) (Provider, error)
}

// SelectorBuilder 供应商选择器的构造器
type SelectorBuilder interface {
	// Build 每次发送构造一个新的选择器
	Build() (Selector, error)
}
