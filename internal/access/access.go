// Package access holds the role policy of the marketplace: which role may
// invoke which operation, and who may manage a given product.
package access

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/resale_market/internal/models"
)

type Operation string

const (
	ProductCreate  Operation = "product.create"
	ProductUpdate  Operation = "product.update"
	ProductDelete  Operation = "product.delete"
	ProductApprove Operation = "product.approve"
	ProductReject  Operation = "product.reject"
	ProductListOwn Operation = "product.list_own"
	OrderCreate    Operation = "order.create"
	OrderList      Operation = "order.list"
	OrderCancel    Operation = "order.cancel"
	PaymentCreate  Operation = "payment.create"
	PaymentVerify  Operation = "payment.verify"
	UserCount      Operation = "user.count"
)

var policy = map[Operation][]models.Role{
	ProductCreate:  {models.RoleSeller},
	ProductUpdate:  {models.RoleSeller, models.RoleAdmin},
	ProductDelete:  {models.RoleSeller, models.RoleAdmin},
	ProductApprove: {models.RoleAdmin},
	ProductReject:  {models.RoleAdmin},
	ProductListOwn: {models.RoleSeller},
	OrderCreate:    {models.RoleBuyer},
	OrderList:      {models.RoleBuyer, models.RoleSeller, models.RoleAdmin},
	OrderCancel:    {models.RoleBuyer},
	PaymentCreate:  {models.RoleBuyer},
	PaymentVerify:  {models.RoleBuyer, models.RoleSeller, models.RoleAdmin},
	UserCount:      {models.RoleAdmin},
}

// Allowed reports whether role may invoke op. Unknown operations are denied.
func Allowed(role models.Role, op Operation) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanManageProduct is the ownership rule for product update and delete:
// the owning seller or any admin.
func CanManageProduct(a Actor, p *models.Product) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == models.RoleSeller && p.SellerID == a.ID
}
