package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                          // Primary key
	Username  string    `gorm:"size:64;unique;not null" json:"username"`                       // Unique username
	Password  string    `gorm:"not null" json:"-"`                                             // Hashed password, never serialized
	Role      string    `gorm:"size:16;default:user" json:"role"`                              // Role: user or admin
	Wallets   []Wallet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"wallets"` // Linked blockchain wallets
	CreatedAt time.Time `json:"createdAt"`                                                     // Signup time
}
