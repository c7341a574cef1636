package notify

import "fmt"

// Message is a ready-to-send notification body.
type Message struct {
	Subject string
	Email   string
	SMS     string
}

// OrderPlaced builds the confirmation sent once payment is confirmed.
func OrderPlaced(firstName string, orderID uint) Message {
	return Message{
		Subject: fmt.Sprintf("Order Confirmation: #%d", orderID),
		Email:   fmt.Sprintf("Hi %s, <br>Order #%d has been placed. Thank you for shopping with us.", firstName, orderID),
		SMS:     fmt.Sprintf("Hi %s, Order #%d has been placed. Thank you for shopping with us.", firstName, orderID),
	}
}

// OrderCancelled builds the cancellation notice.
func OrderCancelled(firstName string, orderID uint) Message {
	return Message{
		Subject: fmt.Sprintf("Order Cancellation: #%d", orderID),
		Email:   fmt.Sprintf("Hi %s, <br>Order #%d has been cancelled. Thank you for shopping with us.", firstName, orderID),
		SMS:     fmt.Sprintf("Hi %s, Order #%d has been successfully cancelled. Thank you for shopping with us.", firstName, orderID),
	}
}
