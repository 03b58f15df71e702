package repository

import (
	"context"

	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a thin generic store over gorm. It persists what it is
// given and does not apply business rules.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	Count(ctx context.Context, query *T) (int64, error)
	BatchCreate(ctx context.Context, resources []*T) error
}
