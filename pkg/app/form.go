package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ValidError 单个字段的校验错误
type ValidError struct {
	Key     string
	Message string
}

// ValidErrors 校验错误集合
type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

// Errors 返回全部错误消息
func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// BindAndValid binds the request into obj and runs validator, translating
// messages with the translator the lang middleware stored under "trans".
// BindAndValid 绑定并校验参数，错误消息使用 lang 中间件设置的翻译器
func BindAndValid(c *gin.Context, obj interface{}) (bool, ValidErrors) {
	if err := c.ShouldBind(obj); err != nil {
		return false, translate(c, err)
	}
	return true, nil
}

// Valid 校验已解码的对象
func Valid(c *gin.Context, obj interface{}) (bool, ValidErrors) {
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return false, translate(c, err)
	}
	return true, nil
}

func translate(c *gin.Context, err error) ValidErrors {
	var errs ValidErrors
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return append(errs, &ValidError{Key: "body", Message: err.Error()})
	}

	var trans ut.Translator
	if v, exists := c.Get("trans"); exists {
		trans, _ = v.(ut.Translator)
	}
	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: e.Field(), Message: msg})
	}
	return errs
}
