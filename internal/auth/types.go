package auth

import "time"

// User is the stored identity record. The password hash never appears in
// any outward-facing representation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ResponderProfile is the role-linked record that exists exactly when the
// user's current role is responder.
type ResponderProfile struct {
	UserID      string    `json:"userId"`
	IsAvailable bool      `json:"isAvailable"`
	Specialty   string    `json:"specialty,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the self-service profile fields a user may change.
// Nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
}
