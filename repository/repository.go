// Package repository persists users and issues. MongoDB backs production;
// the in-memory stores back tests and STORE_DRIVER=memory.
package repository

import (
	"context"
	"errors"

	"civicreport-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// IssueRepository is the CRUD and query surface over issues. Query
// results are always newest first.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error)
	Query(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error)
	Save(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, issue *models.Issue) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
