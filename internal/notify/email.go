package notify

import (
	"errors"
	"time"

	"github.com/shoplite/shoplite/config"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// EmailSender delivers a single message, returning overall success after
// internal retries are exhausted.
type EmailSender interface {
	Send(to, subject, body, attachmentPath string) bool
}

const (
	emailMaxAttempts = 3
	emailRetryWait   = 2 * time.Second
	emailSendTimeout = 10 * time.Second
)

var errSendTimeout = errors.New("smtp send timed out")

// SMTPSender sends mail through gomail with bounded retry: three attempts,
// backoff growing per attempt, fixed per-attempt timeout. The dial boundary
// and the retry knobs are fields so tests can drive the loop without a
// real SMTP server.
type SMTPSender struct {
	from      string
	attempts  int
	retryWait time.Duration
	timeout   time.Duration
	dial      func(m *gomail.Message) error
}

func NewSMTPSender(cfg config.SmtpConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPSender{
		from:      cfg.From,
		attempts:  emailMaxAttempts,
		retryWait: emailRetryWait,
		timeout:   emailSendTimeout,
		dial:      func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

func (s *SMTPSender) Send(to, subject, body, attachmentPath string) bool {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if attachmentPath != "" {
		m.Attach(attachmentPath)
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.sendOnce(m)
		if lastErr == nil {
			return true
		}
		zap.L().Warn("email send attempt failed",
			zap.String("to", to),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt < s.attempts {
			time.Sleep(time.Duration(attempt) * s.retryWait)
		}
	}
	zap.L().Error("email delivery failed after retries",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Error(lastErr),
	)
	return false
}

// sendOnce runs one dial-and-send with a hard timeout; gomail v2 has no
// dial timeout of its own.
func (s *SMTPSender) sendOnce(m *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- s.dial(m)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(s.timeout):
		return errSendTimeout
	}
}
