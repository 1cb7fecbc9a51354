package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for links in notification emails
}

// SMTPNotifier sends workflow notification emails over SMTP.
type SMTPNotifier struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *SMTPNotifier) SendApprovalRequestedEmail(to, number, title string, ticketID uint) error {
	ticketURL := fmt.Sprintf("%s/tickets/%d", s.config.BaseURL, ticketID)

	subject := fmt.Sprintf("Approval needed: %s", number)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Approval Needed</h2>
			<p>Ticket <strong>%s</strong> is waiting for your decision:</p>
			<p>%s</p>
			<p><a href="%s">Review the request</a></p>
		</body>
		</html>
	`, number, title, ticketURL)

	plainBody := fmt.Sprintf(`
Approval Needed

Ticket %s is waiting for your decision:
%s

Review the request at:
%s
	`, number, title, ticketURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) SendStatusChangedEmail(to, number, oldStatus, newStatus string, ticketID uint) error {
	ticketURL := fmt.Sprintf("%s/tickets/%d", s.config.BaseURL, ticketID)

	subject := fmt.Sprintf("Ticket %s is now %s", number, newStatus)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Ticket Status Changed</h2>
			<p>Ticket <strong>%s</strong> moved from %s to <strong>%s</strong>.</p>
			<p><a href="%s">View the ticket</a></p>
		</body>
		</html>
	`, number, oldStatus, newStatus, ticketURL)

	plainBody := fmt.Sprintf(`
Ticket Status Changed

Ticket %s moved from %s to %s.

View the ticket at:
%s
	`, number, oldStatus, newStatus, ticketURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) SendTicketAssignedEmail(to, number string, ticketID uint) error {
	ticketURL := fmt.Sprintf("%s/tickets/%d", s.config.BaseURL, ticketID)

	subject := fmt.Sprintf("Ticket %s assigned to you", number)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Ticket Assigned</h2>
			<p>Ticket <strong>%s</strong> has been assigned to you.</p>
			<p><a href="%s">View the ticket</a></p>
		</body>
		</html>
	`, number, ticketURL)

	plainBody := fmt.Sprintf(`
Ticket Assigned

Ticket %s has been assigned to you.

View the ticket at:
%s
	`, number, ticketURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPNotifier) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
