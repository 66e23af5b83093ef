// Package notifications delivers order placement messages over e-mail (Resend) and SMS
// (Twilio). Every remote dispatcher makes one attempt per message behind a circuit
// breaker; failures come back as errs.NotificationFailedError and are only logged upstream.
package notifications

import (
	"bytes"
	"html/template"
	"strings"
	texttemplate "text/template"

	"foodorders/internal/core/domain/model/order"
)

// message is the view model both templates render.
type message struct {
	CustomerName    string
	OrderNumber     string
	PaymentMethod   string
	DeliveryAddress string
	Total           string
	Lines           []messageLine
}

type messageLine struct {
	Name     string
	Quantity int
	Subtotal string
}

func newMessage(placed order.Snapshot) message {
	lines := make([]messageLine, 0, len(placed.Lines))
	for _, l := range placed.Lines {
		lines = append(lines, messageLine{
			Name:     l.ItemName,
			Quantity: l.Quantity,
			Subtotal: l.UnitPrice.Times(l.Quantity).String(),
		})
	}
	return message{
		CustomerName:    placed.CustomerName,
		OrderNumber:     placed.Number.String(),
		PaymentMethod:   strings.ToUpper(placed.PaymentMethod.String()),
		DeliveryAddress: placed.DeliveryAddress,
		Total:           placed.Total.String(),
		Lines:           lines,
	}
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1>Spicy Biryani</h1>
  <p>Order Confirmation</p>
  <h2>Dear {{.CustomerName}},</h2>
  <p>Thank you for your order! Your biryani is being prepared.</p>
  <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
  <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
  <p><strong>Delivery Address:</strong> {{.DeliveryAddress}}</p>
  <h4>Items Ordered:</h4>
  <ul>
    {{- range .Lines}}
    <li>{{.Name}} x {{.Quantity}} = ₹{{.Subtotal}}</li>
    {{- end}}
  </ul>
  <p><strong>Total: ₹{{.Total}}</strong></p>
  <p>Estimated delivery time: 30-45 minutes. You will receive updates as your order progresses.</p>
</body>
</html>
`))

var smsTemplate = texttemplate.Must(texttemplate.New("sms").Parse(
	"Dear {{.CustomerName}}, your order {{.OrderNumber}} has been placed successfully at Spicy Biryani! " +
		"Total: ₹{{.Total}}. Your biryani will be delivered in 30-45 minutes. Thank you!"))

func renderEmail(m message) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderSMS(m message) (string, error) {
	var buf bytes.Buffer
	if err := smsTemplate.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}
