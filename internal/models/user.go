package models

import "time"

// User represents a registered customer.
type User struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name                string     `json:"name" gorm:"type:varchar(100)" bson:"name"`
	Email               string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" bson:"email"`
	Mobile              string     `json:"mobile" gorm:"type:varchar(20)" bson:"mobile"`
	Password            string     `json:"-" gorm:"type:varchar(255)" bson:"password"` // bcrypt hash
	ResetTokenHash      string     `json:"-" gorm:"type:varchar(64);index" bson:"resetTokenHash,omitempty"`
	ResetTokenExpiresAt *time.Time `json:"-" bson:"resetTokenExpiresAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,min=10,max=15"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
