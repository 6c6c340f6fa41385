package purchase

import (
	"context"
	"log/slog"

	"github.com/futurelab/intuto-connect/internal/intuto"
	"github.com/futurelab/intuto-connect/internal/mail"
	"github.com/futurelab/intuto-connect/model"
)

// Order is the completed-order payload delivered by the commerce platform.
type Order struct {
	ID               string     `json:"id"`
	BillingFirstName string     `json:"billingFirstName"`
	BillingLastName  string     `json:"billingLastName"`
	BillingEmail     string     `json:"billingEmail"`
	BillingPhone     string     `json:"billingPhone"`
	Items            []LineItem `json:"items"`
}

type LineItem struct {
	ProductID   uint   `json:"productID"`
	ProductName string `json:"productName"`
}

// MembersAPI is the slice of the Intuto client the provisioner needs.
type MembersAPI interface {
	CreateMembers(ctx context.Context, members []intuto.Member, sendEmails bool) ([]intuto.MemberResult, error)
	AddToCollection(ctx context.Context, collectionID int64, memberIDs []int64, sendEmails bool) error
}

// ProductLinks resolves a purchased product to its Intuto collection.
type ProductLinks interface {
	CollectionFor(ctx context.Context, productID uint) (int64, error)
}

// Enrollments records successful provisionings.
type Enrollments interface {
	Record(ctx context.Context, enrollment *model.Enrollment) error
}

// Service provisions Intuto members for completed orders. Every failure
// mode is logged and skipped: a failed enrollment must never block or roll
// back the commerce transaction it was triggered by.
type Service struct {
	api        MembersAPI
	links      ProductLinks
	enrolls    Enrollments
	mailSender mail.MailSender
	adminEmail string
}

func NewService(api MembersAPI, links ProductLinks, enrolls Enrollments, mailSender mail.MailSender, adminEmail string) *Service {
	return &Service{
		api:        api,
		links:      links,
		enrolls:    enrolls,
		mailSender: mailSender,
		adminEmail: adminEmail,
	}
}

// ProcessOrder walks the order's line items and enrolls the buyer in each
// linked collection. It returns the number of successful enrollments.
func (s *Service) ProcessOrder(ctx context.Context, order Order) int {
	enrolled := 0
	for _, item := range order.Items {
		if s.processItem(ctx, order, item) {
			enrolled++
		}
	}
	return enrolled
}

func (s *Service) processItem(ctx context.Context, order Order, item LineItem) bool {
	collectionID, err := s.links.CollectionFor(ctx, item.ProductID)
	if err != nil {
		slog.Error("failed to resolve product link", "orderID", order.ID, "productID", item.ProductID, "error", err)
		return false
	}
	if collectionID <= 0 {
		// not an Intuto product
		return false
	}

	if order.BillingFirstName == "" || order.BillingLastName == "" || order.BillingEmail == "" {
		slog.Error("member creation skipped",
			"orderID", order.ID, "productID", item.ProductID, "error", ErrMissingBillingInfo)
		return false
	}

	member := intuto.Member{
		FirstName: order.BillingFirstName,
		LastName:  order.BillingLastName,
		Email:     order.BillingEmail,
		Phone:     order.BillingPhone,
	}

	// Idempotent on the remote side: an email that already exists returns
	// the existing member's id in the same shape as a new one.
	results, err := s.api.CreateMembers(ctx, []intuto.Member{member}, true)
	if err != nil {
		slog.Error("member creation failed", "orderID", order.ID, "email", member.Email, "error", err)
		return false
	}
	if len(results) == 0 || results[0].Member == nil || results[0].Member.UserID <= 0 {
		slog.Error("skipping enrollment",
			"orderID", order.ID, "email", member.Email, "error", ErrMalformedMemberResponse)
		return false
	}
	memberID := results[0].Member.UserID

	if err := s.api.AddToCollection(ctx, collectionID, []int64{memberID}, true); err != nil {
		slog.Error("failed to add member to collection",
			"orderID", order.ID, "collectionID", collectionID, "memberID", memberID, "error", err)
		return false
	}

	if err := s.enrolls.Record(ctx, &model.Enrollment{
		ID:           model.GenerateID(),
		OrderID:      order.ID,
		ProductID:    item.ProductID,
		CollectionID: collectionID,
		MemberID:     memberID,
		Email:        member.Email,
	}); err != nil {
		slog.Error("failed to record enrollment", "orderID", order.ID, "error", err)
	}

	s.notifyAdmin(order, collectionID)
	return true
}

func (s *Service) notifyAdmin(order Order, collectionID int64) {
	if s.mailSender == nil || s.adminEmail == "" {
		return
	}
	err := mail.SendEnrollmentNotice(s.mailSender, s.adminEmail, order.BillingFirstName, order.BillingLastName, collectionID, order.ID)
	if err != nil {
		slog.Error("failed to send enrollment notification", "orderID", order.ID, "error", err)
	}
}
