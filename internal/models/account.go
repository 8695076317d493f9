package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AccountsCollection = "users"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdministrator Role = "admin"
	RoleClinician     Role = "doctor"
	RoleStaff         Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleClinician, RoleStaff:
		return true
	default:
		return false
	}
}

// Account is the stored user document. It is never serialized outward;
// use NewAccountResponse.
type Account struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	FullName       string             `bson:"full_name"`
	Role           Role               `bson:"role"`
	// IsActive is nil on documents written without the field; see Active.
	IsActive       *bool              `bson:"is_active"`
	HashedPassword string             `bson:"hashed_password"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      *time.Time         `bson:"updated_at"`
}

// Active reports the account's active flag. A missing flag means active.
func (a *Account) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

// AccountResponse is the outward representation of an Account.
type AccountResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// NewAccountResponse lists every outward field explicitly so that new
// internal fields are never exposed by accident.
func NewAccountResponse(a *Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID.Hex(),
		Email:     a.Email,
		FullName:  a.FullName,
		Role:      a.Role,
		IsActive:  a.Active(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User    *AccountResponse `json:"user"`
	Message string           `json:"message"`
}
