package model

import "time"

// Role values stored in users.role and carried in the JWT "role" claim.
const (
	RoleStaff    = "STAFF"
	RoleCustomer = "CUSTOMER"
)

// User is an account able to authenticate against the service.  STAFF
// users manage halls, movies and schedule windows; CUSTOMER users place
// orders.  Only the bcrypt hash of the password is ever stored.
type User struct {
	ID           uint64
	Email        string // unique, used as the login identifier
	FirstName    string
	PasswordHash string
	Role         string // RoleStaff or RoleCustomer
	CreatedAt    time.Time
}
