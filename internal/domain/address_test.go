package domain

import (
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		channel Channel
		address string
		want    string
		wantErr error
	}{
		{name: "普通手机号", channel: ChannelSMS, address: "09121234567", want: "09121234567"},
		{name: "国际格式", channel: ChannelSMS, address: "+989121234567", want: "+989121234567"},
		{name: "波斯数字", channel: ChannelSMS, address: "۰۹۱۲۱۲۳۴۵۶۷", want: "09121234567"},
		{name: "带空格和横线", channel: ChannelSMS, address: " 0912-123 4567 ", want: "09121234567"},
		{name: "手机号太短", channel: ChannelSMS, address: "12345", wantErr: errs.ErrInvalidRecipient},
		{name: "手机号带字母", channel: ChannelSMS, address: "0912abc4567", wantErr: errs.ErrInvalidRecipient},
		{name: "邮箱", channel: ChannelEmail, address: "ali@example.com", want: "ali@example.com"},
		{name: "带名字的邮箱", channel: ChannelEmail, address: "Ali <ali@example.com>", wantErr: errs.ErrInvalidRecipient},
		{name: "非法邮箱", channel: ChannelEmail, address: "ali.example.com", wantErr: errs.ErrInvalidRecipient},
		{name: "用户 ID", channel: ChannelInApp, address: "42", want: "42"},
		{name: "用户 ID 为 0", channel: ChannelInApp, address: "0", wantErr: errs.ErrInvalidRecipient},
		{name: "用户 ID 非数字", channel: ChannelInApp, address: "ali", wantErr: errs.ErrInvalidRecipient},
		{name: "未知渠道", channel: "telegram", address: "42", wantErr: errs.ErrInvalidParameter},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeAddress(tc.channel, tc.address)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEmailEncoding(t *testing.T) {
	t.Parallel()

	encoded := EncodeEmail("Meeting reminder", "Dear Ali\nSee you at 10:00")
	assert.Equal(t, "Subject: Meeting reminder\nDear Ali\nSee you at 10:00", encoded)

	subject, body, ok := DecodeEmail(encoded)
	assert.True(t, ok)
	assert.Equal(t, "Meeting reminder", subject)
	assert.Equal(t, "Dear Ali\nSee you at 10:00", body)

	_, body, ok = DecodeEmail("no subject line")
	assert.False(t, ok)
	assert.Equal(t, "no subject line", body)

	_, _, ok = DecodeEmail("Subject: \nbody")
	assert.False(t, ok)
}
