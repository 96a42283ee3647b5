package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var _ Client = (*SNSSMS)(nil)

// SNSAPI sns.Client 中用到的方法
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSMS 通过 AWS SNS 直接发送短信，不需要模版
type SNSSMS struct {
	client SNSAPI
}

func NewSNSSMS(client SNSAPI) *SNSSMS {
	return &SNSSMS{client: client}
}

func (s *SNSSMS) Send(ctx context.Context, req SendReq) (SendResp, error) {
	if len(req.PhoneNumbers) == 0 {
		return SendResp{}, fmt.Errorf("%w: %v", ErrInvalidParameter, "手机号码不能为空")
	}
	if req.Content == "" {
		return SendResp{}, fmt.Errorf("%w: %v", ErrInvalidParameter, "短信内容不能为空")
	}
	result := SendResp{PhoneNumbers: make(map[string]SendRespStatus, len(req.PhoneNumbers))}
	// SNS 一次只能发一个号码
	for _, phone := range req.PhoneNumbers {
		out, err := s.client.Publish(ctx, &sns.PublishInput{
			PhoneNumber: aws.String(phone),
			Message:     aws.String(req.Content),
		})
		if err != nil {
			return SendResp{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
		}
		if out != nil && result.RequestID == "" {
			result.RequestID = aws.ToString(out.MessageId)
		}
		result.PhoneNumbers[phone] = SendRespStatus{Code: OK}
	}
	return result, nil
}
