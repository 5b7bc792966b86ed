package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/shared"
)

type txKey struct{}

// GormTxManager implements shared.TxManager on GORM. The open transaction
// rides in the context so repositories called inside fn join it without
// knowing about each other.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do runs fn inside one transaction; any error rolls the whole unit back
func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

var _ shared.TxManager = (*GormTxManager)(nil)

// dbFromContext returns the transaction riding in ctx, or fallback when the
// call is not transactional.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
