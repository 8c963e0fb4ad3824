package email

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sender define la interfaz para envío de correos transaccionales.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// SendLoginOTP envía el código de acceso con el cuerpo estándar.
func SendLoginOTP(ctx context.Context, s Sender, toEmail, code string, expiresAt time.Time) error {
	if s == nil {
		return errors.New("email sender not configured")
	}
	body := fmt.Sprintf(
		"Your OTP is %s.\nIt expires at %s UTC.\n",
		code,
		expiresAt.UTC().Format(time.RFC3339),
	)
	return s.Send(ctx, toEmail, "Your login code", body)
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) Send(_ context.Context, _ string, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
