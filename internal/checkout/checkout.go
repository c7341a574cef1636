// Package checkout runs an order from address capture through payment,
// confirmation and cancellation.
//
// The flow is a sequence of requests, not a state machine: PlaceOrder creates
// the order and consumes the cart, SubmitPayment charges the amount held in the
// session, Complete confirms. None of the steps compensate for a failure in a
// later one.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/cart"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/notify"
	"github.com/01moynul/valuefurniture-golang/internal/payment"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// CancelWindow is how long after ordering a customer may still cancel.
	CancelWindow = 48 * time.Hour
	// RefundShare is the part of the order total returned on cancellation.
	RefundShare = "0.75"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotOwner       = errors.New("order belongs to another customer")
	ErrNotCancellable = errors.New("order has been dispatched, unable to cancel")
	ErrNoPendingOrder = errors.New("no order is awaiting payment")
)

// Address is the shipping address entered at checkout.
type Address struct {
	Line1      string `json:"line1" binding:"required,max=70"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required,max=40"`
	PostalCode string `json:"postalCode" binding:"required,max=10"`
	Country    string `json:"country" binding:"required,max=40"`
}

// Service holds the checkout collaborators.
type Service struct {
	DB       *gorm.DB
	Gateway  payment.Gateway
	Notifier notify.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

func New(db *gorm.DB, gw payment.Gateway, n notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		DB:       db,
		Gateway:  gw,
		Notifier: n,
		Logger:   logger,
		Now:      time.Now,
	}
}

// PlaceOrder creates the order for the customer's cart and converts the cart
// lines into order details. It returns the order and the cart total taken
// before conversion, which is the amount later charged.
//
// A failure after the order row is written leaves that row in place.
func (s *Service) PlaceOrder(ctx context.Context, c *cart.Cart, customer *models.User, addr Address) (*models.Order, decimal.Decimal, error) {
	// 1. --- Price the cart ---
	count, err := c.Count(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if count == 0 {
		return nil, decimal.Zero, ErrEmptyCart
	}
	total, err := c.Total(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}

	// 2. --- Create the order header ---
	order := &models.Order{
		FirstName:  customer.FirstName,
		LastName:   customer.Surname,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
		Email:      customer.UserName,
		OrderDate:  s.Now(),
		OrderTotal: total,
		CustomerID: customer.ID,
	}
	if customer.HasPhone() {
		order.Phone = *customer.PhoneNumber
	}
	if err := s.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, decimal.Zero, fmt.Errorf("create order: %w", err)
	}

	// 3. --- Move the cart into the order ---
	if _, err := c.ConvertToOrder(ctx, order); err != nil {
		s.Logger.Error("cart conversion failed, order left in place", "order_id", order.ID, "error", err)
		return nil, decimal.Zero, err
	}

	s.Logger.Info("order placed", "order_id", order.ID, "customer_id", customer.ID, "total", total.StringFixed(2))
	return order, total, nil
}

// ClientToken asks the gateway for a token for the payment form.
func (s *Service) ClientToken(ctx context.Context) (string, error) {
	return s.Gateway.GenerateClientToken(ctx)
}

// Outcome classifies a payment submission.
type Outcome int

const (
	// Confirmed: the sale succeeded and the order carries its transaction id.
	Confirmed Outcome = iota
	// Declined: the gateway created a transaction but did not approve it. The
	// order is deleted and the consumed cart is not restored.
	Declined
	// Rejected: the gateway refused the request outright. The order is deleted
	// and the consumed cart is not restored.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Declined:
		return "declined"
	default:
		return "rejected"
	}
}

type PaymentResult struct {
	Outcome     Outcome
	OrderID     uint
	Transaction *payment.Transaction
	Errors      []payment.ValidationError
	Message     string
}

// SubmitPayment charges amount (the session-held total, as text) against the
// client's payment nonce for the pending order.
func (s *Service) SubmitPayment(ctx context.Context, orderID uint, amount, nonce string) (*PaymentResult, error) {
	if orderID == 0 {
		return nil, ErrNoPendingOrder
	}
	value, err := payment.ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	// The order may be gone after an earlier failed attempt.
	if _, err := s.order(s.DB.WithContext(ctx), orderID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrNoPendingOrder
		}
		return nil, err
	}

	sale, err := s.Gateway.Sale(ctx, payment.SaleRequest{
		Amount:              value,
		Nonce:               nonce,
		SubmitForSettlement: true,
	})
	if err != nil {
		return nil, err
	}

	res := &PaymentResult{OrderID: orderID, Transaction: sale.Transaction, Errors: sale.Errors}
	switch {
	case sale.Success:
		res.Outcome = Confirmed
		tx := s.DB.WithContext(ctx).
			Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("transaction_id", sale.Transaction.ID)
		if tx.Error != nil {
			return nil, fmt.Errorf("attach transaction to order %d: %w", orderID, tx.Error)
		}
		if tx.RowsAffected == 0 {
			s.Logger.Error("charged without an order", "order_id", orderID, "transaction_id", sale.Transaction.ID)
			return nil, fmt.Errorf("attach transaction %s: %w", sale.Transaction.ID, ErrOrderNotFound)
		}
		s.Logger.Info("payment confirmed", "order_id", orderID, "transaction_id", sale.Transaction.ID)

	case sale.Transaction != nil:
		res.Outcome = Declined
		res.Message = fmt.Sprintf("Your transaction has a status of %s.", sale.Transaction.Status)
		if err := s.deleteOrder(ctx, orderID); err != nil {
			return nil, err
		}
		s.Logger.Warn("payment declined, order deleted", "order_id", orderID, "status", sale.Transaction.Status)

	default:
		res.Outcome = Rejected
		res.Message = payment.DescribeErrors(sale.Errors)
		if res.Message == "" {
			res.Message = sale.Message
		}
		if err := s.deleteOrder(ctx, orderID); err != nil {
			return nil, err
		}
		s.Logger.Warn("payment rejected, order deleted", "order_id", orderID, "errors", len(sale.Errors))
	}
	return res, nil
}

func (s *Service) deleteOrder(ctx context.Context, orderID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderDetail{}).Error; err != nil {
			return fmt.Errorf("delete order details %d: %w", orderID, err)
		}
		if err := tx.Delete(&models.Order{}, orderID).Error; err != nil {
			return fmt.Errorf("delete order %d: %w", orderID, err)
		}
		return nil
	})
}

// TransactionStatus is a gateway transaction with the storefront's verdict.
type TransactionStatus struct {
	Transaction *payment.Transaction `json:"transaction"`
	Success     bool                 `json:"success"`
	Header      string               `json:"header"`
	Message     string               `json:"message"`
}

// LookupTransaction fetches a transaction and classifies it.
func (s *Service) LookupTransaction(ctx context.Context, id string) (*TransactionStatus, error) {
	tx, err := s.Gateway.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.IsSuccessStatus(tx.Status) {
		return &TransactionStatus{
			Transaction: tx,
			Success:     true,
			Header:      "Sweet Success!",
			Message:     "Your transaction has been successfully processed.",
		}, nil
	}
	return &TransactionStatus{
		Transaction: tx,
		Header:      "Transaction Failed",
		Message:     fmt.Sprintf("Your transaction has a status of %s.", tx.Status),
	}, nil
}

// Complete confirms a paid order to its customer and sends the confirmation
// notifications.
func (s *Service) Complete(ctx context.Context, orderID uint, customerID string) (*models.Order, error) {
	order, err := s.order(s.DB.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrNotOwner
	}

	s.notify(ctx, order, notify.OrderPlaced(order.FirstName, order.ID))
	return order, nil
}

// CancelEligibility returns the order if it may still be cancelled. A non-empty
// owner restricts the lookup to that customer's orders.
func (s *Service) CancelEligibility(ctx context.Context, orderID uint, owner string) (*models.Order, error) {
	order, err := s.order(s.DB.WithContext(ctx).Preload("Details"), orderID)
	if err != nil {
		return nil, err
	}
	if owner != "" && order.CustomerID != owner {
		return nil, ErrNotOwner
	}
	if order.OrderDate.Before(s.Now().Add(-CancelWindow)) {
		return nil, ErrNotCancellable
	}
	return order, nil
}

type CancelResult struct {
	Order        *models.Order        `json:"order"`
	RefundAmount decimal.Decimal      `json:"refundAmount"`
	Refund       *payment.Transaction `json:"refund,omitempty"`
}

// Cancel refunds part of a young order, puts one unit back in stock per order
// line, deletes the order and notifies the customer. A failed refund is logged
// and does not stop the cancellation.
func (s *Service) Cancel(ctx context.Context, orderID uint, owner string) (*CancelResult, error) {
	order, err := s.CancelEligibility(ctx, orderID, owner)
	if err != nil {
		return nil, err
	}

	// 1. --- Refund ---
	res := &CancelResult{
		Order:        order,
		RefundAmount: order.OrderTotal.Mul(decimal.RequireFromString(RefundShare)).Round(2),
	}
	if order.TransactionID != nil && *order.TransactionID != "" {
		refund, err := s.Gateway.Refund(ctx, *order.TransactionID, res.RefundAmount)
		if err != nil {
			s.Logger.Error("refund failed", "order_id", order.ID, "transaction_id", *order.TransactionID, "error", err)
		} else {
			res.Refund = refund
		}
	}

	// 2. --- Restock & delete ---
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range order.Details {
			err := tx.Model(&models.Product{}).
				Where("id = ?", d.ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", 1)).Error
			if err != nil {
				return fmt.Errorf("restock product %d: %w", d.ProductID, err)
			}
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderDetail{}).Error; err != nil {
			return fmt.Errorf("delete order details %d: %w", order.ID, err)
		}
		if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
			return fmt.Errorf("delete order %d: %w", order.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. --- Notify ---
	s.notify(ctx, order, notify.OrderCancelled(order.FirstName, order.ID))
	s.Logger.Info("order cancelled", "order_id", order.ID, "refund", res.RefundAmount.StringFixed(2))
	return res, nil
}

func (s *Service) order(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return &order, nil
}

// notify sends msg to the order's customer. Delivery problems are logged only.
func (s *Service) notify(ctx context.Context, order *models.Order, msg notify.Message) {
	var customer models.User
	if err := s.DB.WithContext(ctx).First(&customer, "id = ?", order.CustomerID).Error; err != nil {
		s.Logger.Warn("notification skipped, customer not found", "order_id", order.ID, "customer_id", order.CustomerID, "error", err)
		return
	}
	if err := notify.Send(ctx, s.Notifier, &customer, msg); err != nil {
		s.Logger.Warn("notification failed", "order_id", order.ID, "error", err)
	}
}
