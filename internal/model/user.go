package model

import "time"

// Roles stored in users.role and carried in the JWT "role" claim.
const (
	RoleUser  = "USER"  // regular customer
	RoleOwner = "OWNER" // facility owner
	RoleAdmin = "ADMIN" // platform administrator
)

// Account statuses stored in users.status.  Banned users can no longer
// authenticate.
const (
	UserActive = "active"
	UserBanned = "banned"
)

// User is an account on the platform.  Customers book courts, owners manage
// venues, admins approve venues and moderate accounts.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email, stored lower-cased.
//  PasswordHash – bcrypt hash of the password.
//  FullName     – display name.
//  Role         – USER, OWNER or ADMIN.
//  Status       – active or banned.
//  Verified     – whether the registration OTP was confirmed.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Role         string    // users.role
	Status       string    // users.status
	Verified     bool      // users.is_verified
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
