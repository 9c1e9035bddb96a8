package services

import (
	"errors"
	"mime"
	"testing"

	"coffebless/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	sent []*gomail.Message
	err  error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.sent = append(r.sent, m...)
	return r.err
}

func TestEmailDisabledWithoutCredentials(t *testing.T) {
	es := NewEmailService(EmailConfig{To: "cafe@example.com"}, nil)

	assert.False(t, es.Enabled())
	assert.NoError(t, es.SendOrderCopy(models.Handoff{Text: "x"}, models.CheckoutForm{}))
}

func TestEmailEnabledWithCredentials(t *testing.T) {
	es := NewEmailService(EmailConfig{User: "u@example.com", Pass: "p", To: "cafe@example.com"}, nil)
	assert.True(t, es.Enabled())
	assert.Equal(t, "u@example.com", es.from)
}

func TestSendOrderCopy(t *testing.T) {
	rec := &recordingSender{}
	es := &EmailService{dialer: rec, from: "bot@example.com", to: "cafe@example.com", logger: zap.NewNop()}

	err := es.SendOrderCopy(models.Handoff{Text: "🛒 pedido", URL: "https://wa.me/1?text=x", TotalItems: 2, TotalPrice: 5800}, models.CheckoutForm{CustomerName: "Ana"})

	require.NoError(t, err)
	require.Len(t, rec.sent, 1)
	m := rec.sent[0]
	assert.Equal(t, []string{"cafe@example.com"}, m.GetHeader("To"))
	subject := m.GetHeader("Subject")
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "Nuevo pedido — 2 productos, $5.800 — Ana", decoded)
}

func TestSendOrderCopyError(t *testing.T) {
	boom := errors.New("smtp down")
	es := &EmailService{dialer: &recordingSender{err: boom}, to: "cafe@example.com", logger: zap.NewNop()}

	assert.ErrorIs(t, es.SendOrderCopy(models.Handoff{}, models.CheckoutForm{}), boom)
}
