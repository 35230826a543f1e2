package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// UpdateProfile changes the display name of user. Email stays fixed since it
// is the login identity.
func (uc *UseCase) UpdateProfile(ctx context.Context, user *domain.User, name string) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		verr := &domain.ValidationError{}
		verr.Add("name", domain.ValidationRequired, "The name field is required.")
		return nil, verr
	}
	if len([]rune(name)) > domain.TitleMaxLength {
		verr := &domain.ValidationError{}
		verr.Add("name", domain.ValidationTooLong, "The name field must not be greater than 255 characters.")
		return nil, verr
	}

	updated := *user
	updated.Name = name
	if err := uc.users.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes the user. Their todos go with them through the store's
// cascading foreign key.
func (uc *UseCase) DeleteAccount(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if err := uc.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	uc.logger.Info("account deleted", zap.String("user_id", user.ID))
	return nil
}
