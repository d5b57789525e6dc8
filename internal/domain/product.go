package domain

import "time"

// Product услуга с ценой. Ядро бронирования её только читает.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       float64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
