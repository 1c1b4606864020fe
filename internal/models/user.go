package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null" json:"role"`
	Phone        string   `gorm:"size:20" json:"phone,omitempty"`

	Addresses []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`

	// Şifre sıfırlama: kodun kendisi değil sadece hash'i saklanır
	ResetCodeHash      *string    `gorm:"size:64" json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Address struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"index;not null" json:"-"`
	Title     string `gorm:"size:50;not null" json:"title"`
	FullName  string `gorm:"size:100;not null" json:"full_name"`
	Phone     string `gorm:"size:11;not null" json:"phone"`
	City      string `gorm:"size:50;not null" json:"city"`
	District  string `gorm:"size:50;not null" json:"district"`
	Address   string `gorm:"size:500;not null" json:"address"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
