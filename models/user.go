package models

import "time"

type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Username   string    `json:"username" gorm:"uniqueIndex;size:60;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Password   string    `json:"-" gorm:"not null"`                           // เก็บ bcrypt hash
	Role       string    `json:"role" gorm:"size:20;not null;default:employee"` // "admin" | "manager" | "employee"
	Name       string    `json:"name" gorm:"size:120;not null"`
	Department string    `json:"department" gorm:"size:60"`
	Position   string    `json:"position" gorm:"size:60"`
	Active     bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
