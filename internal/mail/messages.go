package mail

import (
	"fmt"
)

// SendEnrollmentNotice tells the store admin that a purchase enrolled a new
// member in a collection.
func SendEnrollmentNotice(sender MailSender, toEmail string, firstName, lastName string, collectionID int64, orderID string) error {
	body := fmt.Sprintf(
		"<p>A new user %s %s has been added to Intuto Collection %d</p><p>Order: %s</p>",
		firstName, lastName, collectionID, orderID,
	)
	return sender.Send(&Message{
		To:      []string{toEmail},
		Subject: "New Intuto Subscription has been created",
		Body:    body,
		IsHTML:  true,
	})
}
