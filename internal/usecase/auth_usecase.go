package usecase

import (
	"context"
	"strings"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	clients  domain.APIClients
	validate *validator.Validate
}

func NewAuthUsecase(clients domain.APIClients, validate *validator.Validate) domain.AuthUsecase {
	return &authUsecase{clients: clients, validate: validate}
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) error {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(u.validate, input); err != nil {
		return err
	}

	_, err := u.clients.Auth("").Register(ctx, input)
	return err
}

// Login authenticates and builds the session. The username is the one typed
// in; the rest comes from the token response.
func (u *authUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.Session, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(u.validate, input); err != nil {
		return nil, err
	}

	res, err := u.clients.Auth("").Login(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		Token:    res.AccessToken,
		UserID:   res.UserID.String(),
		Username: input.Username,
		Email:    res.Email,
		Role:     domain.Role(res.UserType),
	}, nil
}

// UpdateProfile sends the non-empty fields and, on success, merges them into
// sess. The submitted values win over whatever the API echoes back.
func (u *authUsecase) UpdateProfile(ctx context.Context, sess *domain.Session, update domain.ProfileUpdate) error {
	if err := requireSession(sess); err != nil {
		return err
	}

	update.Username = strings.TrimSpace(update.Username)
	update.Email = strings.TrimSpace(update.Email)
	if update.Empty() {
		return apperror.BadRequest("Please enter a new username or email to update.")
	}
	if err := validateInput(u.validate, update); err != nil {
		return err
	}

	if _, err := u.clients.Auth(sess.Token).UpdateProfile(ctx, update); err != nil {
		return err
	}
	sess.Apply(update)
	return nil
}
