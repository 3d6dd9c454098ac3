package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

var ErrNoRecipients = errors.New("mail: message has no recipients")

type Message struct {
	Subject string
	From    string
	To      []string
	Body    string
	HTML    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPMailer delivers messages through one SMTP relay. Every Send dials,
// delivers and hangs up within Timeout.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPMailer{cfg: cfg}
}

// Send returns the number of recipients the relay accepted the message for,
// which is 0 whenever an error is returned.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (int, error) {
	gm, err := buildMessage(msg)
	if err != nil {
		return 0, err
	}

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return 0, fmt.Errorf("mail: failed to create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, gm); err != nil {
		return 0, fmt.Errorf("mail: failed to deliver message to %s: %w", m.cfg.Host, err)
	}

	return len(msg.To), nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithTimeout(m.cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(m.cfg.Port))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

func buildMessage(msg Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}

	gm := gomail.NewMsg()
	if err := gm.From(msg.From); err != nil {
		return nil, fmt.Errorf("mail: invalid sender %q: %w", msg.From, err)
	}
	if err := gm.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipients %v: %w", msg.To, err)
	}
	gm.Subject(msg.Subject)

	contentType := gomail.TypeTextPlain
	if msg.HTML {
		contentType = gomail.TypeTextHTML
	}
	gm.SetBodyString(contentType, msg.Body)

	return gm, nil
}
