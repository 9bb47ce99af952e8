package notifications

import (
	"fmt"

	"github.com/nairobitech/duka/pkg/notification"
)

// Welcome greets a freshly registered customer.
type Welcome struct {
	FirstName string
}

func (Welcome) Via() []string { return []string{"mail"} }

func (n Welcome) ToMail() notification.MailData {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #3b82f6;">Welcome to Nairobi Electronics!</h1>
  <p>Hi %s,</p>
  <p>Thank you for joining Nairobi Electronics! We're excited to have you as part of our community.</p>
  <p>You can now:</p>
  <ul>
    <li>Browse our latest electronics and gadgets</li>
    <li>Enjoy cash-on-delivery payment options</li>
    <li>Get fast delivery across Kenya</li>
    <li>Access exclusive deals and offers</li>
  </ul>
  <p>Start shopping today and discover amazing technology at unbeatable prices!</p>
  <p style="color: #666; margin-top: 30px;">
    Best regards,<br>
    The Nairobi Electronics Team<br>
    10 Woodvale Grove, Nairobi<br>
    Phone: 0717888333
  </p>
</div>`, n.FirstName)

	return notification.MailData{
		Subject: "Welcome to Nairobi Electronics!",
		Body:    body,
		Text:    fmt.Sprintf("Hi %s, thank you for joining Nairobi Electronics!", n.FirstName),
	}
}
