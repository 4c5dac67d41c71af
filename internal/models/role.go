package models

// Role роль пользователя. Значения упорядочены: чем больше, тем шире права.
type Role int

// Роли пользователей.
const (
	RoleRegularUser Role = 1
	RoleEditor      Role = 2
	RoleAdmin       Role = 3
)

// HasRole сообщает, не ниже ли роль заданного минимума.
func (r Role) HasRole(minimum Role) bool {
	return r >= minimum
}

// Valid проверяет, что значение роли известно.
func (r Role) Valid() bool {
	return r >= RoleRegularUser && r <= RoleAdmin
}

func (r Role) String() string {
	switch r {
	case RoleRegularUser:
		return "RegularUser"
	case RoleEditor:
		return "Editor"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// ParseRole разбирает роль по имени.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "RegularUser":
		return RoleRegularUser, true
	case "Editor":
		return RoleEditor, true
	case "Admin":
		return RoleAdmin, true
	}
	return 0, false
}

// Principal аутентифицированный участник запроса.
// Передаётся в сервисы явно, глобального "текущего пользователя" нет.
type Principal struct {
	UserID   int64
	Username string
	Role     Role
}

// Can сообщает, есть ли у участника роль не ниже минимальной. Nil означает анонима.
func (p *Principal) Can(minimum Role) bool {
	return p != nil && p.Role.HasRole(minimum)
}
