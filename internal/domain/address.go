package domain

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/errs"
	"gitee.com/autopuzzle/notification-center/internal/pkg/jalali"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// NormalizeAddress 校验并规整某个渠道的接收地址
// 短信：波斯数字转成 ASCII，去掉空格和横线
// 邮件：只接受裸地址，不接受 "Name <a@b.c>"
// 站内信：正整数用户 ID
func NormalizeAddress(c Channel, address string) (string, error) {
	address = strings.TrimSpace(address)
	switch c {
	case ChannelSMS:
		phone := strings.NewReplacer(" ", "", "-", "").Replace(jalali.ToEnglishDigits(address))
		if !phonePattern.MatchString(phone) {
			return "", fmt.Errorf("%w: 手机号 %q", errs.ErrInvalidRecipient, address)
		}
		return phone, nil
	case ChannelEmail:
		addr, err := mail.ParseAddress(address)
		if err != nil || addr.Address != address {
			return "", fmt.Errorf("%w: 邮箱 %q", errs.ErrInvalidRecipient, address)
		}
		return address, nil
	case ChannelInApp:
		uid, err := strconv.ParseInt(address, 10, 64)
		if err != nil || uid <= 0 {
			return "", fmt.Errorf("%w: 用户 ID %q", errs.ErrInvalidRecipient, address)
		}
		return strconv.FormatInt(uid, 10), nil
	default:
		return "", fmt.Errorf("%w: type = %q", errs.ErrInvalidParameter, c)
	}
}
