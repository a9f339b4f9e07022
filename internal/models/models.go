package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPending, ProductApproved, ProductRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentCanceled PaymentStatus = "canceled"
	PaymentReturned PaymentStatus = "returned"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"_id"`
	Name         string    `gorm:"not null"               json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	Role         Role      `gorm:"not null;index"         json:"role"`
	CreatedAt    time.Time `                              json:"createdAt"`
	UpdatedAt    time.Time `                              json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenHash string    `gorm:"uniqueIndex;not null"     json:"-"`
	JTI       string    `gorm:"uniqueIndex;not null"     json:"jti"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt int64     `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
}

type Product struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey"           json:"_id"`
	Name        string        `gorm:"not null"                       json:"name"`
	Description string        `gorm:"not null"                       json:"description"`
	Price       float64       `gorm:"not null;index"                 json:"price"`
	Stock       int           `gorm:"not null;default:0"             json:"stock"`
	Category    string        `gorm:"not null;index"                 json:"category"`
	Image       string        `                                      json:"image,omitempty"`
	SellerID    uuid.UUID     `gorm:"type:uuid;index;not null"       json:"seller"`
	Status      ProductStatus `gorm:"not null;index;default:pending" json:"status"`
	CreatedAt   time.Time     `                                      json:"createdAt"`
	UpdatedAt   time.Time     `                                      json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey"             json:"_id"`
	BuyerID           uuid.UUID     `gorm:"type:uuid;index;not null"         json:"buyer"`
	ProductID         uuid.UUID     `gorm:"type:uuid;index;not null"         json:"productId"`
	Product           *Product      `gorm:"foreignKey:ProductID"             json:"product,omitempty"`
	Amount            float64       `gorm:"not null"                         json:"amount"`
	AdminMargin       float64       `gorm:"not null"                         json:"adminMargin"`
	PaymentStatus     PaymentStatus `gorm:"not null;index;default:pending"   json:"paymentStatus"`
	RazorpayOrderID   string        `gorm:"index"                            json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string        `                                        json:"razorpay_payment_id,omitempty"`
	CreatedAt         time.Time     `                                        json:"createdAt"`
	UpdatedAt         time.Time     `                                        json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ProductChanges is a partial product update. Only non-nil fields are
// written; status is never part of it.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
	Image       *string
}

// Fields returns the supplied changes keyed by column name. The relational
// columns and the document keys share these names.
func (c ProductChanges) Fields() map[string]any {
	out := map[string]any{}
	if c.Name != nil {
		out["name"] = *c.Name
	}
	if c.Description != nil {
		out["description"] = *c.Description
	}
	if c.Price != nil {
		out["price"] = *c.Price
	}
	if c.Stock != nil {
		out["stock"] = *c.Stock
	}
	if c.Category != nil {
		out["category"] = *c.Category
	}
	if c.Image != nil {
		out["image"] = *c.Image
	}
	return out
}

// ProductFilter holds the optional catalog filters. Nil or empty fields do
// not constrain the result; the rest are combined with AND.
type ProductFilter struct {
	Status   ProductStatus
	Category string
	SellerID *uuid.UUID
	MinPrice *float64
	MaxPrice *float64
}

// All returns every model the relational store migrates.
func All() []any {
	return []any{&User{}, &RefreshToken{}, &Product{}, &Order{}}
}
