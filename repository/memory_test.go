package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"civicreport-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryIssues_QueryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssues()
	owner := primitive.NewObjectID()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, status := range []models.IssueStatus{models.Pending, models.Resolved, models.InProgress} {
		issue := &models.Issue{
			Title:          "issue",
			Specialization: models.Pothole,
			User:           owner,
			Status:         status,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Create(ctx, issue); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.Query(ctx, models.IssueFilter{StatusNot: models.Resolved})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d issues, want 2", len(got))
	}
	if got[0].Status != models.InProgress || got[1].Status != models.Pending {
		t.Fatalf("order = %s, %s; want newest first", got[0].Status, got[1].Status)
	}
}

func TestMemoryIssues_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssues()
	issue := &models.Issue{Likes: []string{"a"}}
	if err := repo.Create(ctx, issue); err != nil {
		t.Fatalf("Create: %v", err)
	}
	issue.Likes[0] = "mutated"

	stored, err := repo.FindByID(ctx, issue.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Likes[0] != "a" {
		t.Fatalf("store aliased caller slice: %v", stored.Likes)
	}
}

func TestMemoryIssues_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssues()
	missing := &models.Issue{ID: primitive.NewObjectID()}

	if _, err := repo.FindByID(ctx, missing.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID err = %v", err)
	}
	if err := repo.Save(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Save err = %v", err)
	}
	if err := repo.Delete(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete err = %v", err)
	}
}

func TestMemoryUsers_Unique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUsers()
	if err := repo.Create(ctx, &models.User{Username: "amina", Email: "amina@example.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &models.User{Username: "other", Email: "AMINA@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email err = %v", err)
	}
	if err := repo.Create(ctx, &models.User{Username: "amina", Email: "new@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username err = %v", err)
	}
	u, err := repo.FindByEmail(ctx, "amina@example.com")
	if err != nil || u.Username != "amina" {
		t.Fatalf("FindByEmail = %+v, %v", u, err)
	}
}
