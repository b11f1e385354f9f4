package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator resolves the request language from the lang query or header.
// The language is stored per request; requests without one get English.
// LangWithTranslator 根据 lang 参数或请求头确定本次请求的语言与校验翻译器，默认英文
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {

	return func(c *gin.Context) {

		var lang string

		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}

		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))
		c.Set(app.LangKey, code.ResolveLang(lang))

		base, _, _ := strings.Cut(lang, "_")
		if trans, found := uni.GetTranslator(lang); found {
			c.Set("trans", trans)
		} else if trans, found := uni.GetTranslator(base); found && base != "" {
			c.Set("trans", trans)
		} else {
			trans, _ := uni.GetTranslator("en")
			c.Set("trans", trans)
		}

		c.Next()
	}
}
