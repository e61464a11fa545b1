package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/manas300/portfolio/internal/config"
)

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(name, email, message string) error
}

// SMTPMailer sends through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
	// send is smtp.SendMail, swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(name, email, message string) error {
	if !m.cfg.Enabled() {
		return errors.New("SMTP credentials not configured")
	}
	to := m.cfg.To
	if to == "" {
		to = m.cfg.User
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

var errContactInput = errors.New("invalid contact input")

// validateContact rejects empty fields, oversized bodies and anything that
// could smuggle extra mail headers.
func validateContact(name, email, message string, maxMessage int) error {
	switch {
	case name == "" || email == "" || message == "":
		return fmt.Errorf("%w: all fields are required", errContactInput)
	case len(name) > 200 || strings.ContainsAny(name, "\r\n"):
		return fmt.Errorf("%w: invalid name", errContactInput)
	case strings.ContainsAny(email, "\r\n"):
		return fmt.Errorf("%w: invalid email", errContactInput)
	case maxMessage > 0 && len(message) > maxMessage:
		return fmt.Errorf("%w: message too long", errContactInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", errContactInput)
	}
	return nil
}

// handleContact answers with HTML fragments for HTMX, so failures are
// reported with 200 and an error partial.
func (s *Server) handleContact(c *gin.Context) {
	hashed := s.hashIP(c.ClientIP())
	if !s.limiter.allow(hashed) {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "You've sent several messages already. Please try again in a few minutes.",
		})
		return
	}

	name := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.TrimSpace(c.PostForm("email"))
	message := strings.TrimSpace(c.PostForm("message"))

	if err := validateContact(name, email, message, s.cfg.Contact.MaxMessage); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please provide your name, a valid email address and a message.",
		})
		return
	}

	id, err := s.db.SaveMessage(name, email, message, hashed)
	if err != nil {
		s.log.Error("Error saving message", "err", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	if s.mailer != nil {
		if err := s.mailer.Send(name, email, message); err != nil {
			s.log.Warn("Error sending email", "id", id, "err", err)
		} else if err := s.db.MarkDelivered(id); err != nil {
			s.log.Error("Error marking message delivered", "id", id, "err", err)
		} else {
			s.log.Info("Email sent", "id", id)
		}
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}

// visitorLimiter hands out one token bucket per hashed client.
type visitorLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

const maxTrackedClients = 10000

func newVisitorLimiter(perMinute float64, burst int) *visitorLimiter {
	return &visitorLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
	}
}

func (l *visitorLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedClients {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim.Allow()
}
