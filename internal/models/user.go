package models

import "time"

// User учётная запись сотрудника или покупателя.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Role         Role
	IsActive     bool
	DateCreated  time.Time
	LastLogin    *time.Time
}

// UserProfile данные пользователя, возвращаемые при входе и в /auth/current.
type UserProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	RoleLevel int    `json:"roleLevel"`
}

// UserView пользователь в списке администратора.
type UserView struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	RoleLevel   int        `json:"roleLevel"`
	IsActive    bool       `json:"isActive"`
	DateCreated time.Time  `json:"dateCreated"`
	LastLogin   *time.Time `json:"lastLogin"`
}

// Profile формирует UserProfile.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role.String(),
		RoleLevel: int(u.Role),
	}
}

// View формирует UserView.
func (u *User) View() UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role.String(),
		RoleLevel:   int(u.Role),
		IsActive:    u.IsActive,
		DateCreated: u.DateCreated,
		LastLogin:   u.LastLogin,
	}
}

// LoginRequest учётные данные для входа.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest данные нового пользователя.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     Role   `json:"role" validate:"required,min=1,max=3"`
}

// UpdateUserRequest частичное обновление пользователя. Nil-поля не меняются.
type UpdateUserRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Role        *Role   `json:"role" validate:"omitempty,min=1,max=3"`
	IsActive    *bool   `json:"isActive"`
	NewPassword *string `json:"newPassword" validate:"omitempty,min=6"`
}
