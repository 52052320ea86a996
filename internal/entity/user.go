package entity

import "time"

const (
	RoleAdmin     = "admin"
	RoleShopOwner = "shop_owner"
	RoleSalesman  = "salesman"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Password  string    `json:"password,omitempty"` // In production, you'd store hashed passwords.
	Role      string    `json:"role"`               // e.g., "admin", "shop_owner", "salesman"
	Status    string    `json:"status"`             // "active" or "inactive"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleShopOwner, RoleSalesman:
		return true
	}
	return false
}
