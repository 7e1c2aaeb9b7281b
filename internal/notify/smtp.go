package notify

import (
	"strconv"

	"gopkg.in/gomail.v2"
)

// SMTPNotifier sends email through an SMTP server using gomail.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPNotifier creates a Notifier for the given SMTP server.
// Port is accepted as a string to match how it arrives from config.
func NewSMTPNotifier(host, port, user, password, from string) *SMTPNotifier {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &SMTPNotifier{
		dialer: gomail.NewDialer(host, p, user, password),
		from:   from,
	}
}

// Send delivers an HTML email.
func (n *SMTPNotifier) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return &DeliveryError{To: to, Err: err}
	}
	return nil
}
