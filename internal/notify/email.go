// Package notify sends transactional email through Resend. Every send
// returns an explicit error; callers decide whether a failure is fatal or a
// degraded-but-acceptable path.
package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/sunridge-camp/portal-api/internal/domain"
)

type Mailer struct {
	client *resend.Client
	from   string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *Mailer) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send -> %w", err)
	}

	return nil
}

func (m *Mailer) SendWelcome(ctx context.Context, to, parentName string) error {
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your Sunridge Day Camp account is ready. You can now register your campers for camp days and message the director from the portal.</p>`,
		parentName,
	)
	return m.send(ctx, to, "Welcome to Sunridge Day Camp", html)
}

func (m *Mailer) SendOrderConfirmation(ctx context.Context, to string, order domain.Order, venmoHandle, venmoLink string) error {
	html := fmt.Sprintf(
		`<p>Thanks for registering!</p>
<p>Your total is <strong>$%.2f</strong> (discount applied: $%.2f).</p>
<p>Please send payment to <strong>@%s</strong> on Venmo and include the code <strong>%s</strong> in the memo so we can match your payment.</p>
<p><a href="%s">Pay with Venmo</a></p>`,
		float64(order.TotalCents-order.DiscountCents)/100,
		float64(order.DiscountCents)/100,
		venmoHandle,
		order.VenmoCode,
		venmoLink,
	)
	return m.send(ctx, to, "Sunridge Day Camp registration received", html)
}

func (m *Mailer) SendMessageNotification(ctx context.Context, to, fromName, preview string) error {
	if len(preview) > 140 {
		preview = preview[:140] + "..."
	}
	html := fmt.Sprintf(
		`<p><strong>%s</strong> sent a new message:</p><blockquote>%s</blockquote><p>Reply from the portal.</p>`,
		fromName, preview,
	)
	return m.send(ctx, to, "New message on the camp portal", html)
}
