package models

import "time"

// UserSummary is the public view of a User returned with a session.
type UserSummary struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func Summarize(u *User) UserSummary {
	return UserSummary{
		ID:        u.ID.String(),
		Phone:     u.Phone,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// SessionResult is returned by every sign-in operation. Role is the role
// carried by the issued tokens, which is admin for an elevated login.
type SessionResult struct {
	User         UserSummary `json:"user"`
	Role         Role        `json:"role"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	IsNewUser    bool        `json:"is_new_user,omitempty"`
}
