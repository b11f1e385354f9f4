// Package email sends transactional mail over SMTP.
package email

import (
	"context"
	"crypto/tls"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPInfo SMTP 服务器配置
type SMTPInfo struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" default:"587"`
	IsSSL    bool   `yaml:"is-ssl"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled 是否配置了 SMTP 服务器
func (i SMTPInfo) Enabled() bool {
	return i.Host != ""
}

// Sender 邮件发送接口
type Sender interface {
	SendMail(ctx context.Context, to []string, subject, body string) error
}

// Email SMTP 邮件发送器。未配置 SMTP 时只记录日志
type Email struct {
	*SMTPInfo
	logger *zap.Logger
}

// NewEmail 创建邮件发送器
func NewEmail(info *SMTPInfo, logger *zap.Logger) *Email {
	return &Email{SMTPInfo: info, logger: logger}
}

// SendMail 发送 HTML 邮件
func (e *Email) SendMail(ctx context.Context, to []string, subject, body string) error {
	if !e.Enabled() {
		e.logger.Info("smtp is not configured, mail not sent",
			zap.Strings("to", to),
			zap.String("subject", subject),
			zap.String("body", body))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	dialer := gomail.NewDialer(e.Host, e.Port, e.UserName, e.Password)
	dialer.SSL = e.IsSSL
	dialer.TLSConfig = &tls.Config{ServerName: e.Host}
	if err := dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "send mail to %v", to)
	}
	return nil
}
