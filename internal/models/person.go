package models

import "time"

// Person is the shipping profile matched to a user by e-mail.
type Person struct {
	ID         uint      `gorm:"primaryKey"                    json:"id"`
	FullName   string    `gorm:"size:255"                      json:"full_name"`
	Phone      string    `gorm:"size:32"                       json:"phone"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"       validate:"required"`
	PostalCode string    `gorm:"size:16"                       json:"postal_code" validate:"required"`
	Address    string    `gorm:"type:text"                     json:"address"     validate:"required"`
	CreatedAt  time.Time `                                     json:"created_at"`
}

func All() []any {
	return []any{&Part{}, &Cart{}, &CartItem{}, &Person{}, &Order{}, &Invoice{}}
}
