package domain

import "strings"

const emailSubjectPrefix = "Subject: "

// Message 交给供应商的一条消息
type Message struct {
	LogID     int64
	Channel   Channel
	Recipient string
	Content   string
	RelatedID int64
}

// EncodeEmail 邮件主题编码进正文第一行
func EncodeEmail(subject, body string) string {
	return emailSubjectPrefix + subject + "\n" + body
}

// DecodeEmail 按第一个换行拆出主题和正文
// 没有主题行时 ok 为 false，body 为原文
func DecodeEmail(message string) (subject, body string, ok bool) {
	if !strings.HasPrefix(message, emailSubjectPrefix) {
		return "", message, false
	}
	rest := message[len(emailSubjectPrefix):]
	line, body, _ := strings.Cut(rest, "\n")
	subject = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	return subject, body, subject != ""
}
