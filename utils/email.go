package utils

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker"

	"collabnest/backend/logging"
)

// EmailSender šalje email preko SMTP servera. Slanje ide kroz circuit breaker
// da spori ili nedostupan SMTP server ne bi zadržavao obradu zahteva.
type EmailSender struct {
	host     string
	port     string
	from     string
	password string
	breaker  *gobreaker.CircuitBreaker
}

func NewEmailSender(host, port, from, password string) *EmailSender {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: SMTP_BREAKER_STATE_CHANGE, Description: Circuit breaker '%s' changed state from %s to %s", name, from, to)
		},
	})
	return &EmailSender{host: host, port: port, from: from, password: password, breaker: breaker}
}

// Configured javlja da li je SMTP nalog podešen; bez njega se slanje preskače.
func (e *EmailSender) Configured() bool {
	return e.from != "" && e.password != ""
}

// Send šalje email na zadatu adresu sa naslovom i sadržajem.
func (e *EmailSender) Send(to, subject, body string) error {
	if !e.Configured() {
		return fmt.Errorf("SMTP sender is not configured")
	}

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + e.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n" +
		body + "\r\n")

	_, err := e.breaker.Execute(func() (interface{}, error) {
		auth := smtp.PlainAuth("", e.from, e.password, e.host)
		if err := smtp.SendMail(e.host+":"+e.port, auth, e.from, []string{to}, message); err != nil {
			return nil, fmt.Errorf("failed to send email: %v", err)
		}
		return nil, nil
	})
	return err
}
