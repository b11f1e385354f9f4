package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GetRandomString 生成指定长度的随机字符串（字母与数字）
func GetRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, length)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// GetRandomToken 生成 n 字节随机数的十六进制字符串，用于刷新 Token 与邮件确认链接
func GetRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
