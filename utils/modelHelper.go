package utils

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* DB fetching */

// fetch model from db by primary key
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, db *gorm.DB, id interface{}) (*T, error) {
	var result T
	err := db.WithContext(ctx).Where("id = ?", id).Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// fetch model and hold a row lock until the surrounding transaction ends
func FetchModelForUpdate[T any](ctx context.Context, tx *gorm.DB, id interface{}) (*T, error) {
	return FetchModel[T](ctx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}
