package domain

import "context"

type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50,no_emoji,valid_username"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	UserType string `json:"user_type" form:"user_type" validate:"required,oneof=candidate recruiter"`
}

type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginResult is the token endpoint answer.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserType    string `json:"user_type"`
	UserID      Scalar `json:"user_id"`
	Email       string `json:"email"`
}

// ProfileUpdate is a partial profile change. Empty fields are not sent.
type ProfileUpdate struct {
	Username string `json:"username,omitempty" form:"username" validate:"omitempty,min=3,max=50,no_emoji,valid_username"`
	Email    string `json:"email,omitempty" form:"email" validate:"omitempty,email"`
}

func (u ProfileUpdate) Empty() bool {
	return u.Username == "" && u.Email == ""
}

// Profile is whatever the API echoes back after a profile update.
type Profile struct {
	ID       Scalar `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// RegisterResult is the registration answer; it carries no token.
type RegisterResult struct {
	ID       Scalar `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

type AuthClient interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error)
	SetToken(token string)
	Authenticated() bool
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, input LoginInput) (*Session, error)
	UpdateProfile(ctx context.Context, sess *Session, update ProfileUpdate) error
}
