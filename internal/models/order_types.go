package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the model for the 'orders' table (the order header).
type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	FirstName     string          `json:"firstName" gorm:"size:160"`
	LastName      string          `json:"lastName" gorm:"size:160"`
	Line1         string          `json:"line1" gorm:"size:70"`
	Line2         string          `json:"line2"`
	City          string          `json:"city" gorm:"size:40"`
	PostalCode    string          `json:"postalCode" gorm:"size:10"`
	Country       string          `json:"country" gorm:"size:40"`
	Phone         string          `json:"phone" gorm:"size:11"`
	Email         string          `json:"email"`
	OrderDate     time.Time       `json:"orderDate"`
	OrderTotal    decimal.Decimal `json:"orderTotal" gorm:"type:decimal(18,2)"`
	CustomerID    string          `json:"customerId" gorm:"size:36;index"`
	TransactionID *string         `json:"transactionId,omitempty" gorm:"size:64"`

	Details []OrderDetail `json:"details,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderDetail is the model for the 'order_details' table.
// ProductName and Cost are snapshots taken when the cart was converted.
type OrderDetail struct {
	ProductID   uint            `json:"productId" gorm:"primaryKey;autoIncrement:false"`
	OrderID     uint            `json:"orderId" gorm:"primaryKey;autoIncrement:false"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(18,2)"`
	CustomerID  string          `json:"customerId" gorm:"size:36"`
}

// OrderInput is the admin create/edit payload for an order header.
type OrderInput struct {
	FirstName     string          `json:"firstName" binding:"required,max=160"`
	LastName      string          `json:"lastName" binding:"required,max=160"`
	Line1         string          `json:"line1" binding:"required,max=70"`
	Line2         string          `json:"line2"`
	City          string          `json:"city" binding:"required,max=40"`
	PostalCode    string          `json:"postalCode" binding:"required,max=10"`
	Country       string          `json:"country" binding:"required,max=40"`
	Phone         string          `json:"phone" binding:"max=11"`
	Email         string          `json:"email"`
	OrderDate     *time.Time      `json:"orderDate"`
	OrderTotal    decimal.Decimal `json:"orderTotal"`
	CustomerID    string          `json:"customerId"`
	TransactionID *string         `json:"transactionId"`
}

// Apply copies the header fields onto o. Customer and transaction are only
// taken on create, matching the edit form which never exposes them.
func (in OrderInput) Apply(o *Order, create bool) {
	o.FirstName = in.FirstName
	o.LastName = in.LastName
	o.Line1 = in.Line1
	o.Line2 = in.Line2
	o.City = in.City
	o.PostalCode = in.PostalCode
	o.Country = in.Country
	o.Phone = in.Phone
	o.Email = in.Email
	if in.OrderDate != nil {
		o.OrderDate = *in.OrderDate
	}
	o.OrderTotal = in.OrderTotal
	if create {
		o.CustomerID = in.CustomerID
		o.TransactionID = in.TransactionID
	}
}
