package entity

import "time"

// Warehouse representa una bodega física donde viven los lotes.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
}
