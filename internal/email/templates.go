package email

import (
	"fmt"
	"strings"

	"github.com/example/storefront/internal/domain/order"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice int
	Size      string
}

// BuildOrderNotificationBody builds the HTML body of the operator email sent
// when a new order is placed. The proof link lets the operator open the
// payment proof straight from the email.
func BuildOrderNotificationBody(orderID, customerName string, total int, items []OrderItem, proofURL string) string {
	var itemsHTML strings.Builder
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		if item.Size != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Size)
		}
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">&#8358;%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">&#8358;%s</td>
			</tr>`,
			name,
			item.Quantity,
			formatNumber(item.UnitPrice),
			formatNumber(item.UnitPrice*item.Quantity),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #1a1a2e; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">New order received</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">%s placed an order. Verify the payment proof in the admin console before fulfilling.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order reference</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Unit price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total</span>
			<span style="font-size: 24px; font-weight: bold; color: #1a1a2e; margin-left: 10px;">&#8358;%s</span>
		</div>
%s	</div>
</body>
</html>`, customerName, order.Ref(orderID), itemsHTML.String(), formatNumber(total), proofLinkHTML(proofURL))
}

func proofLinkHTML(proofURL string) string {
	if proofURL == "" {
		return ""
	}
	return fmt.Sprintf(`
		<div style="text-align: center; margin-top: 20px;">
			<a href="%s" style="display: inline-block; background: #1a1a2e; color: white; padding: 12px 24px; border-radius: 5px; text-decoration: none; font-weight: 600;">View Payment Proof</a>
		</div>
`, proofURL)
}

// BuildStatusUpdateBody builds the HTML body of the customer email sent when
// an order is finalized. Anything other than fulfilled renders as rejected.
func BuildStatusUpdateBody(customerName, orderID, status string) string {
	headline := "Order Rejected"
	detail := "Unfortunately we could not verify your payment. If you believe this is a mistake, please contact us with your order reference."
	color := "#c0392b"
	if status == string(order.StatusFulfilled) {
		headline = "Order Fulfilled"
		detail = "Your payment has been confirmed and your order is on its way."
		color = "#27ae60"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: %s; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">%s</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Hi %s,</p>
		<p>%s</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order reference</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This email was sent automatically. Reply if you have any questions.
		</p>
	</div>
</body>
</html>`, color, headline, customerName, detail, order.Ref(orderID))
}

// BuildContactNotificationBody builds the HTML body of the operator email
// for a contact form submission
func BuildContactNotificationBody(name, fromEmail, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #1a1a2e; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">New contact message</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin-bottom: 20px;">
			<p style="margin: 0; font-size: 14px; color: #666;">From</p>
			<p style="margin: 5px 0 0 0; font-weight: bold;">%s &lt;%s&gt;</p>
		</div>

		<p style="white-space: pre-wrap;">%s</p>
	</div>
</body>
</html>`, name, fromEmail, body)
}

// formatNumber formats a number with comma separators
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(",")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
