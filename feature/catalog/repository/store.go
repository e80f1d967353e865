package repository

import (
	"errors"
	"fmt"

	"seed-catalog/core/database"
	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no row matches a natural key.
var ErrNotFound = errors.New("record not found")

// Store is the port the reconciler uses for one entity kind.
type Store[T any, K any] interface {
	// FindByKey loads the entity with the natural key and its relations.
	FindByKey(dc dbctx.Context, key K) (*T, error)
	// FindByID loads the entity by primary key.
	FindByID(dc dbctx.Context, id uint) (*T, error)
	// Save inserts or updates the entity's own columns. Relations are
	// written through Links.
	Save(dc dbctx.Context, entity *T) error
	// Delete removes the entity.
	Delete(dc dbctx.Context, entity *T) error
	// List returns every entity ordered by id, with relations loaded.
	List(dc dbctx.Context) ([]T, error)
}

// keySpec tells a gormStore how to query and describe its natural key.
type keySpec[T any, K any] struct {
	where func(K) map[string]any
	of    func(*T) K
	label func(K) string
}

type gormStore[T any, K any] struct {
	db       *gorm.DB
	kind     string
	key      keySpec[T, K]
	preloads []string
}

func newStore[T any, K any](db *gorm.DB, kind string, key keySpec[T, K], preloads ...string) *gormStore[T, K] {
	return &gormStore[T, K]{db: db, kind: kind, key: key, preloads: preloads}
}

func (s *gormStore[T, K]) query(dc dbctx.Context) *gorm.DB {
	q := dc.DB(s.db)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	return q
}

func (s *gormStore[T, K]) FindByKey(dc dbctx.Context, key K) (*T, error) {
	var out T
	err := s.query(dc).Where(s.key.where(key)).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %q: %w", s.kind, s.key.label(key), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s %q: %w", s.kind, s.key.label(key), err)
	}
	return &out, nil
}

func (s *gormStore[T, K]) FindByID(dc dbctx.Context, id uint) (*T, error) {
	var out T
	err := s.query(dc).First(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s #%d: %w", s.kind, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s #%d: %w", s.kind, id, err)
	}
	return &out, nil
}

func (s *gormStore[T, K]) Save(dc dbctx.Context, entity *T) error {
	err := dc.DB(s.db).Omit(clause.Associations).Save(entity).Error
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return &reconcile.IdentityConflictError{Kind: s.kind, Key: s.key.label(s.key.of(entity)), Err: err}
	}
	return fmt.Errorf("failed to save %s: %w", s.kind, err)
}

func (s *gormStore[T, K]) Delete(dc dbctx.Context, entity *T) error {
	if err := dc.DB(s.db).Delete(entity).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.kind, err)
	}
	return nil
}

func (s *gormStore[T, K]) List(dc dbctx.Context) ([]T, error) {
	var out []T
	if err := s.query(dc).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}
	return out, nil
}
