package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/example/storefront/internal/domain/order"
)

// Sender delivers a single email. Satisfied by Service and by test fakes.
type Sender interface {
	SendOrderNotification(to []string, orderID, customerName string, total int, items []OrderItem, proofURL string) error
	SendStatusUpdate(to, customerName, orderID, status string) error
	SendContactNotification(to []string, name, fromEmail, body string) error
}

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderNotification tells the store operators a new order came in and
// needs its payment proof checked
func (s *Service) SendOrderNotification(to []string, orderID, customerName string, total int, items []OrderItem, proofURL string) error {
	subject := fmt.Sprintf("New order %s from %s", order.Ref(orderID), customerName)
	body := BuildOrderNotificationBody(orderID, customerName, total, items, proofURL)
	return s.send(to, subject, body)
}

// SendStatusUpdate tells a customer their order was fulfilled or rejected
func (s *Service) SendStatusUpdate(to, customerName, orderID, status string) error {
	subject := fmt.Sprintf("Your order %s has been updated", order.Ref(orderID))
	body := BuildStatusUpdateBody(customerName, orderID, status)
	return s.send([]string{to}, subject, body)
}

// SendContactNotification forwards a contact form submission to the operators
func (s *Service) SendContactNotification(to []string, name, fromEmail, body string) error {
	subject := fmt.Sprintf("New message from %s", name)
	html := BuildContactNotificationBody(name, fromEmail, body)
	return s.send(to, subject, html)
}

func (s *Service) send(to []string, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, strings.Join(to, ", "), subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, to, []byte(msg))
}
