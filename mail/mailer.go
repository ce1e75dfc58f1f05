package mail

import (
	"fmt"
	"log"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. With no host configured it
// logs instead of sending, so local setups work without credentials.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host, port, user, pass, from string) *Mailer {
	m := &Mailer{from: from}
	if host == "" {
		log.Println("SMTP not configured — outgoing mail disabled")
		return m
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	m.dialer = gomail.NewDialer(host, p, user, pass)
	return m
}

func (m *Mailer) SendPasswordReset(to, resetURL string) error {
	if m.dialer == nil {
		log.Printf("Password reset for %s: %s", to, resetURL)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset")
	msg.SetBody("text/html", fmt.Sprintf(
		`<p>You requested a password reset.</p>
<p>Click <a href="%s">this link</a> to set a new password. The link expires in one hour.</p>`,
		resetURL,
	))

	return m.dialer.DialAndSend(msg)
}
