package entity

import "time"

// User representa la cuenta de un negocio cliente de CostGuard.
// Es dueño exclusivo de sus Vendors e Invoices (borrado en cascada en DB).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	BusinessName string
	CreatedAt    time.Time
}
