package mail

import (
	"context"
	"fmt"

	"plantstore/internal/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPでHTMLメールを送る
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPMail,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPMail,
	}
}

func (m *Mailer) SendOTP(ctx context.Context, to, name, code string) error {
	return m.send(ctx, to, "Your verification code", OTPEmailHTML(name, code))
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return m.send(ctx, to, "Password recovery", ResetPasswordEmailHTML(name, resetURL))
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	//認証情報が無いローカルSMTP（mailpitなど）は認証なし
	if m.password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}
