package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/onelance/project-tracker/internal/i18n"
	"github.com/onelance/project-tracker/internal/logger"
)

type EmailsService interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender envía el magic link por correo a través de la API de Resend.
type Sender struct {
	emails EmailsService
	from   string
	appURL string
	trans  *i18n.Translations
}

func NewSender(apiKey, from, appURL string, trans *i18n.Translations) *Sender {
	client := resend.NewClient(apiKey)
	return &Sender{
		emails: client.Emails,
		from:   from,
		appURL: appURL,
		trans:  trans,
	}
}

func NewSenderWithService(emails EmailsService, from, appURL string, trans *i18n.Translations) *Sender {
	return &Sender{
		emails: emails,
		from:   from,
		appURL: appURL,
		trans:  trans,
	}
}

// SendMagicLink arma el enlace de conexión y lo envía al destinatario.
func (s *Sender) SendMagicLink(ctx context.Context, to, token string) error {
	magicLink := fmt.Sprintf("%s/auth/verify?token=%s", s.appURL, token)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: s.trans.GetMessage("email_magic_link_subject", 0, nil),
		Html:    magicLinkBody(magicLink),
	}

	sent, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		logger.Error(ctx, "magic link email failed", err, "to", to)
		return fmt.Errorf("error al enviar el email: %w", err)
	}

	logger.Info(ctx, "magic link email sent", "id", sent.Id)
	return nil
}

func magicLinkBody(magicLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="text-align: center; margin: 30px 0;">
      <a href="%[1]s" style="background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Se connecter</a>
    </div>
    <p style="font-size: 14px; color: #666;">Ce lien est valide pendant 15 minutes.</p>
    <p style="font-size: 14px; color: #666;">Si vous n'avez pas demandé ce lien, ignorez cet email.</p>
    <hr style="border: none; border-top: 1px solid #ddd; margin: 30px 0;">
    <p style="font-size: 12px; color: #999;">Lien direct : <a href="%[1]s" style="color: #667eea;">%[1]s</a></p>
  </body>
</html>`, magicLink)
}
