package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a regular customer in the system
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	IsBlocked   bool      `json:"is_blocked"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Admin represents a restaurant administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// MenuCategory groups menu items (starters, mains, drinks, ...)
type MenuCategory struct {
	gorm.Model
	Name        string     `json:"name" gorm:"uniqueIndex"`
	Description string     `json:"description"`
	Items       []MenuItem `json:"items,omitempty" gorm:"foreignKey:CategoryID"`
}

// MenuItem is a dish on the menu
type MenuItem struct {
	gorm.Model
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	ImageURL    string       `json:"image_url"`
	CategoryID  uint         `json:"category_id"`
	Category    MenuCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	IsActive    bool         `json:"is_active" gorm:"default:true"`
}
