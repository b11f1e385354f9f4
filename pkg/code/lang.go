package code

import (
	"fmt"
	"reflect"
	"strings"
)

// lang type, used to store English and Chinese text
// lang 类型，用来存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

// GetMessage returns the message in the process default language
// GetMessage 返回进程默认语言的消息，请求语言见 GetMessageIn
func (l lang) GetMessage() string {
	return l.GetMessageIn(FALLBACK_LNG)
}

// GetMessageIn returns the message for language, falling back to English
// GetMessageIn 返回指定语言的消息，缺失时回退到英文
func (l lang) GetMessageIn(language string) string {
	val := reflect.ValueOf(l)
	if field := val.FieldByName(language); field.IsValid() && field.String() != "" {
		return field.String()
	}
	if field := val.FieldByName(FALLBACK_LNG); field.IsValid() && field.String() != "" {
		return field.String()
	}
	return fmt.Sprintf("No message available for language: %s", language)
}

// GetSupportedLanguages returns all languages supported by the lang type
// GetSupportedLanguages 返回 lang 类型支持的所有语言
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// ResolveLang maps a requested language such as "zh_cn", "zh" or "en_us" onto a
// supported one; anything unknown resolves to FALLBACK_LNG.
// ResolveLang 将请求语言映射为支持的语言，未知时回退到英文
func ResolveLang(language string) string {
	language = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
	supported := GetSupportedLanguages()
	for _, l := range supported {
		if language == l {
			return l
		}
	}
	base, _, _ := strings.Cut(language, "_")
	if base != "" {
		for _, l := range supported {
			if l == base || strings.HasPrefix(l, base+"_") {
				return l
			}
		}
	}
	return FALLBACK_LNG
}
