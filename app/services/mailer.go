package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/utils/format"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer interface {
	SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) Mailer {
	if cfg.Host == "" {
		return noopMailer{}
	}
	return &SMTPMailer{config: cfg}
}

func (m *SMTPMailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.config.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.config.From, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.config.Host,
		mail.WithPort(m.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.Username),
		mail.WithPassword(m.config.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// noopMailer is used when EMAIL_HOST is unset.
type noopMailer struct{}

func (noopMailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody string) error {
	return nil
}

func BuildOrderConfirmationEmailBody(order *models.Order, items []models.OrderItem) string {
	var rows strings.Builder
	for _, item := range items {
		fmt.Fprintf(&rows, `
				<tr>
					<td style="padding: 8px; border: 1px solid #ddd;">%s (%s)</td>
					<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
					<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
					<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				</tr>`,
			html.EscapeString(item.ProductName),
			html.EscapeString(item.Color),
			item.Qty,
			format.Money(item.Price, order.Currency),
			format.Money(item.LineTotal(), order.Currency),
		)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Order %[1]s confirmed</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<div style="max-width: 600px; margin: auto; padding: 20px;">
		<h2>Your order %[1]s is confirmed</h2>
		<table style="width: 100%%; border-collapse: collapse;">
			<thead>
				<tr>
					<th style="padding: 8px; border: 1px solid #ddd; text-align: left;">Product</th>
					<th style="padding: 8px; border: 1px solid #ddd; text-align: left;">Qty</th>
					<th style="padding: 8px; border: 1px solid #ddd; text-align: left;">Price</th>
					<th style="padding: 8px; border: 1px solid #ddd; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>%[2]s
			</tbody>
		</table>
		<p>Discount: %[3]s</p>
		<p>Points redeemed: %[4]d</p>
		<p>Delivery: %[5]s</p>
		<p><strong>Paid: %[6]s</strong></p>
		<p>You earned %[7]d loyalty points with this order.</p>
		<p>Shipping to: %[8]s, %[9]s</p>
	</div>
</body>
</html>`,
		html.EscapeString(order.OrderCode),
		rows.String(),
		format.Money(order.DiscountAmount, order.Currency),
		order.RedeemedPoints,
		format.Money(order.DeliveryCharge, order.Currency),
		format.Money(order.Total, order.Currency),
		order.PointsEarned,
		html.EscapeString(order.Address),
		html.EscapeString(order.Pincode),
	)
}
