package service

import (
	"context"
	"fmt"
	"strconv"

	"biliran-rental-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &smtpEmailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *smtpEmailService) SendNotification(ctx context.Context, toEmail, toName, subject, body string) error {
	logger.ExternalServiceCall("smtp", "SendNotification", "to", toEmail, "subject", subject)
	m := s.buildMessage(toEmail, toName, subject, body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	err := d.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "SendNotification", err, "to", toEmail)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *smtpEmailService) buildMessage(toEmail, toName, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", toEmail, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

const sendGridEndpoint = "/v3/mail/send"

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	host      string
}

// NewSendGridEmailService sends through the SendGrid v3 API. An empty host
// uses the public endpoint.
func NewSendGridEmailService(apiKey, fromEmail, fromName, host string) EmailService {
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		host:      host,
	}
}

func (s *sendGridEmailService) SendNotification(ctx context.Context, toEmail, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "SendNotification", "to", toEmail, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	request := sendgrid.GetRequest(s.apiKey, sendGridEndpoint, s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequest(request)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "SendNotification", err, "to", toEmail)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "SendNotification", err, "to", toEmail)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "SendNotification", nil, "to", toEmail, "status", response.StatusCode)
	return nil
}
