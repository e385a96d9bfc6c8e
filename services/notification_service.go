package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/renovation-quotes-api/models"
	"github.com/shopspring/decimal"
)

// Notifier renders catalog templates in the recipient's language and sends them
type Notifier struct {
	emails    EmailService
	templates *EmailTemplates
}

// NewNotifier creates a notifier over an email backend and a template catalog
func NewNotifier(emails EmailService, templates *EmailTemplates) *Notifier {
	return &Notifier{emails: emails, templates: templates}
}

// Notify sends template name to recipient. Failures are returned, never retried.
func (n *Notifier) Notify(ctx context.Context, name string, recipient models.User, data EmailData) error {
	if recipient.Email == "" {
		return fmt.Errorf("user %s has no email address", recipient.ID)
	}

	data.RecipientName = recipient.Name
	language := recipient.Language(n.templates.DefaultLanguage())

	rendered, err := n.templates.Render(name, language, data)
	if err != nil {
		return err
	}

	if err := n.emails.SendEmail(ctx, recipient.Email, rendered.Subject, rendered.HTML); err != nil {
		return fmt.Errorf("failed to send %s to %s: %w", name, recipient.Email, err)
	}
	return nil
}

// FormatPrice renders a quote price for notifications
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(2)
}

// DefaultNotifier builds a notifier from the global email service and
// templates. It returns nil when either is not initialized.
func DefaultNotifier() *Notifier {
	emails := GetEmailService()
	templates := GetEmailTemplates()
	if emails == nil || templates == nil {
		return nil
	}
	return NewNotifier(emails, templates)
}
