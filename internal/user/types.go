package user

type RegisterRequest struct {
	User struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email,max=100"`
		Password string `json:"password" binding:"required,min=6,max=100"`
	} `json:"user"`
}

type LoginRequest struct {
	User struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	} `json:"user"`
}

// UpdateUserFields 只合并非 nil 的字段
type UpdateUserFields struct {
	Email    *string `json:"email" binding:"omitempty,email,max=100"`
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string `json:"password" binding:"omitempty,min=6,max=100"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image" binding:"omitempty,max=500"`
}

type UpdateUserRequest struct {
	User UpdateUserFields `json:"user"`
}

// AuthUser 当前用户，包含令牌
type AuthUser struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      string  `json:"bio"`
	Image    *string `json:"image"`
}

type UserResponse struct {
	User AuthUser `json:"user"`
}
