package client

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSNSSMS_Send(t *testing.T) {
	t.Parallel()

	t.Run("逐个号码发送", func(t *testing.T) {
		t.Parallel()
		api := &fakeSNS{}
		resp, err := NewSNSSMS(api).Send(context.Background(), SendReq{
			PhoneNumbers: []string{"+989121111111", "+989122222222"},
			Content:      "hello",
		})
		require.NoError(t, err)
		assert.Equal(t, "msg-1", resp.RequestID)
		assert.Len(t, api.inputs, 2)
		assert.Equal(t, "+989122222222", aws.ToString(api.inputs[1].PhoneNumber))
		assert.Equal(t, "hello", aws.ToString(api.inputs[1].Message))
		assert.Equal(t, OK, resp.PhoneNumbers["+989121111111"].Code)
	})

	t.Run("内容为空", func(t *testing.T) {
		t.Parallel()
		_, err := NewSNSSMS(&fakeSNS{}).Send(context.Background(), SendReq{PhoneNumbers: []string{"+989121111111"}})
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("SNS 报错", func(t *testing.T) {
		t.Parallel()
		_, err := NewSNSSMS(&fakeSNS{err: errors.New("throttled")}).Send(context.Background(), SendReq{
			PhoneNumbers: []string{"+989121111111"},
			Content:      "hello",
		})
		assert.ErrorIs(t, err, ErrSendFailed)
	})
}

func TestOrderedParams(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"1", "2", "3"}, orderedParams(map[string]string{"c": "3", "a": "1", "b": "2"}))
	assert.Empty(t, orderedParams(nil))
}
