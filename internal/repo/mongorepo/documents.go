package mongorepo

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/models"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type refreshDoc struct {
	TokenHash string `bson:"token_hash"`
	JTI       string `bson:"jti"`
	UserID    string `bson:"user_id"`
	ExpiresAt int64  `bson:"expires_at"`
	Revoked   bool   `bson:"revoked"`
}

type productDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	Stock       int       `bson:"stock"`
	Category    string    `bson:"category"`
	Image       string    `bson:"image,omitempty"`
	SellerID    string    `bson:"seller"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type orderDoc struct {
	ID                string    `bson:"_id"`
	BuyerID           string    `bson:"buyer"`
	ProductID         string    `bson:"product"`
	Amount            float64   `bson:"amount"`
	AdminMargin       float64   `bson:"admin_margin"`
	PaymentStatus     string    `bson:"payment_status"`
	RazorpayOrderID   string    `bson:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string    `bson:"razorpay_payment_id,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:           parseID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         models.Role(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toProductDoc(p *models.Product) productDoc {
	return productDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Image:       p.Image,
		SellerID:    p.SellerID.String(),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDoc) model() *models.Product {
	return &models.Product{
		ID:          parseID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
		Category:    d.Category,
		Image:       d.Image,
		SellerID:    parseID(d.SellerID),
		Status:      models.ProductStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toOrderDoc(o *models.Order) orderDoc {
	return orderDoc{
		ID:                o.ID.String(),
		BuyerID:           o.BuyerID.String(),
		ProductID:         o.ProductID.String(),
		Amount:            o.Amount,
		AdminMargin:       o.AdminMargin,
		PaymentStatus:     string(o.PaymentStatus),
		RazorpayOrderID:   o.RazorpayOrderID,
		RazorpayPaymentID: o.RazorpayPaymentID,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func (d orderDoc) model() models.Order {
	return models.Order{
		ID:                parseID(d.ID),
		BuyerID:           parseID(d.BuyerID),
		ProductID:         parseID(d.ProductID),
		Amount:            d.Amount,
		AdminMargin:       d.AdminMargin,
		PaymentStatus:     models.PaymentStatus(d.PaymentStatus),
		RazorpayOrderID:   d.RazorpayOrderID,
		RazorpayPaymentID: d.RazorpayPaymentID,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
