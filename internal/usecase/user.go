package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/arthit/accounts-api/internal/model"
	"github.com/arthit/accounts-api/internal/repository"
)

// UserUsecase defines user profile use cases.
type UserUsecase interface {
	// CurrentUser returns the profile of an already authenticated user.
	CurrentUser(ctx context.Context, userID string) (*model.Profile, error)
}

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) CurrentUser(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}
