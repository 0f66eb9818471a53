package dto

import userModel "terminal-terrace/conduit/internal/model/user"

// Profile 对外公开的用户资料，不包含邮箱和凭据
type Profile struct {
	Username  string  `json:"username"`
	Bio       string  `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// ProfileResponse {profile: {...}}
type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

// NewProfile following 相对于当前请求者
func NewProfile(u *userModel.User, following bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
