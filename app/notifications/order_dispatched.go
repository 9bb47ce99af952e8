package notifications

import (
	"fmt"

	"github.com/nairobitech/duka/pkg/notification"
)

// OrderDispatched tells a customer their order has left the store.
// OrderRef is the short form of the order id shown in the email.
type OrderDispatched struct {
	FirstName       string
	OrderRef        string
	ShippingAddress string
}

func (OrderDispatched) Via() []string { return []string{"mail"} }

func (n OrderDispatched) ToMail() notification.MailData {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #3b82f6;">Your Order is On Its Way! 🚚</h1>
  <p>Hi %s,</p>
  <p>Great news! Your order <strong>#%s...</strong> has been dispatched from our Nairobi store and is on its way to you!</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Delivery Details:</h3>
    <p><strong>Delivery Address:</strong><br>%s</p>
    <p><strong>Expected Delivery:</strong> Within 1-2 business days</p>
    <p><strong>Payment Method:</strong> Cash on Delivery</p>
  </div>
  <p><strong>What to expect:</strong></p>
  <ul>
    <li>Our delivery team will contact you before arrival</li>
    <li>Have your cash ready for payment</li>
    <li>Inspect your items before payment</li>
    <li>Keep this email as your delivery reference</li>
  </ul>
  <p>If you have any questions about your delivery, please contact us at 0717888333.</p>
  <p style="color: #666; margin-top: 30px;">
    Thank you for choosing Nairobi Electronics!<br><br>
    Best regards,<br>
    The Nairobi Electronics Team<br>
    10 Woodvale Grove, Nairobi<br>
    Phone: 0717888333
  </p>
</div>`, n.FirstName, n.OrderRef, n.ShippingAddress)

	return notification.MailData{
		Subject: "Your Order Has Been Dispatched! 📦",
		Body:    body,
		Text: fmt.Sprintf("Hi %s, your order #%s... has been dispatched to %s.",
			n.FirstName, n.OrderRef, n.ShippingAddress),
	}
}
