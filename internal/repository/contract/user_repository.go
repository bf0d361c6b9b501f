package contract

import (
	"context"

	"nichelens-be/internal/entity"
	"nichelens-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error)
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
}
