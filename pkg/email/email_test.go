package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSendMail_Unconfigured(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := NewEmail(&SMTPInfo{}, zap.New(core))

	err := e.SendMail(context.Background(), []string{"a@b.io"}, "Confirm your signup", "<a href=\"x\">confirm</a>")
	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("smtp is not configured, mail not sent").Len())
}
