package model

import "time"

// Role distinguishes the two kinds of portal users.
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// User is a portal account.
type User struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	Email     string    `json:"email" validate:"required,email"`
	Name      string    `json:"name" validate:"required,min=1,max=200"`
	Role      Role      `json:"role" validate:"required,oneof=landlord tenant"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Validate() error { return validateStruct(u) }
