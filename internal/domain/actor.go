package domain

// Role роль инициатора операции (выдается слоем аутентификации)
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ParseRole конвертирует строку в Role
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleClient:
		return Role(s), true
	default:
		return "", false
	}
}

// Actor инициатор операции
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}

// Owns returns true if the actor is the client of the booking
func (a Actor) Owns(b *Booking) bool {
	return a.IsClient() && b.ClientID == a.UserID
}

// CanAccess returns true if the actor may see the booking
func (a Actor) CanAccess(b *Booking) bool {
	return a.IsAdmin() || a.Owns(b)
}
