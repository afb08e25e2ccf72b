// Package services отправляет приветственные письма новым подписчикам.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/lib/smtp"
	"github.com/magabrotheeeer/newsletter/internal/models"
)

// ErrBadMessage возвращается для сообщения, которое невозможно разобрать.
var ErrBadMessage = errors.New("bad message")

const welcomeSubject = "Welcome to News Flash"

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport smtp.Dialer
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.Dialer) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendWelcome разбирает событие subscriber.created и отправляет приветственное письмо.
func (s *SenderService) SendWelcome(body []byte) error {
	var event models.SubscriberCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%w: error unmarshalling message: %w", ErrBadMessage, err)
	}
	if event.Email == "" {
		return fmt.Errorf("%w: empty email", ErrBadMessage)
	}

	name := event.Name
	if name == "" {
		name = models.DefaultSubscriberName
	}
	bodyText := fmt.Sprintf("Hello, %s!\r\n\r\nThanks for subscribing to News Flash. "+
		"You will receive our next issue at %s.\r\n", name, event.Email)

	return s.sendEmail([]string{event.Email}, welcomeSubject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.Sender()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		_ = wc.Close()
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("welcome email sent", slog.Int("recipients", len(to)))
	return nil
}
