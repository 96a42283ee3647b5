package domain

// Channel 通知渠道
type Channel string

const (
	ChannelSMS   Channel = "sms"    // 短信
	ChannelEmail Channel = "email"  // 邮件
	ChannelInApp Channel = "in_app" // 站内信
)

func (c Channel) String() string {
	return string(c)
}

func (c Channel) IsValid() bool {
	switch c {
	case ChannelSMS, ChannelEmail, ChannelInApp:
		return true
	default:
		return false
	}
}

// Channels 全部渠道，顺序固定
func Channels() []Channel {
	return []Channel{ChannelSMS, ChannelEmail, ChannelInApp}
}
