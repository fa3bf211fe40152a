package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store exposes the read repositories bound to a single unit of work.
type Store interface {
	Buildings() BuildingRepository
	Activities() ActivityRepository
	Organizations() OrganizationRepository
	Users() UserRepository
}

// UnitOfWork scopes a group of repository calls to one transaction.
type UnitOfWork interface {
	// Do runs fn inside a transaction. The transaction commits when fn returns nil and rolls
	// back when fn returns an error or panics; it is released on every path.
	Do(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork returns a UnitOfWork backed by GORM transactions.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{tx: tx})
	})
}

type gormStore struct {
	tx *gorm.DB
}

func (s *gormStore) Buildings() BuildingRepository { return NewBuildingRepository(s.tx) }

func (s *gormStore) Activities() ActivityRepository { return NewActivityRepository(s.tx) }

func (s *gormStore) Organizations() OrganizationRepository { return NewOrganizationRepository(s.tx) }

func (s *gormStore) Users() UserRepository { return NewUserRepository(s.tx) }
