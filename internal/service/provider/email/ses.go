package email

import (
	"context"
	"fmt"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/service/provider"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

// SESAPI ses.Client 中用到的方法
//
//go:generate mockgen -source=./ses.go -destination=./mocks/ses.mock.go -package=emailmocks SESAPI
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

var _ provider.Provider = (*SESProvider)(nil)

// SESProvider 通过 AWS SES 发送邮件
// 消息内容第一行是 "Subject: xxx"，后面是正文
type SESProvider struct {
	client SESAPI
	from   string
}

func NewSESProvider(client SESAPI, from string) *SESProvider {
	return &SESProvider{client: client, from: from}
}

func (p *SESProvider) Send(ctx context.Context, msg domain.Message) error {
	to, err := domain.NormalizeAddress(domain.ChannelEmail, msg.Recipient)
	if err != nil {
		return err
	}
	subject, body, ok := domain.DecodeEmail(msg.Content)
	if !ok {
		return errs.ErrMissingSubject
	}
	_, err = p.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(p.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: ses: %w", errs.ErrSendFailed, err)
	}
	return nil
}
