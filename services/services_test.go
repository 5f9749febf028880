package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"civicreport-be/models"
	"civicreport-be/policy"
	"civicreport-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	repo *repository.MemoryIssues
	svc  *IssueService
}

func newFixture(t *testing.T, mode policy.TransitionMode) *fixture {
	t.Helper()
	repo := repository.NewMemoryIssues()
	svc := NewIssueService(repo, policy.NewLifecycle(mode), discard)
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC) }
	return &fixture{repo: repo, svc: svc}
}

func identity(role models.Role, spec models.Specialization) *models.Identity {
	return &models.Identity{ID: primitive.NewObjectID(), Username: string(role), Role: role, Specialization: spec}
}

func ptr[T any](v T) *T { return &v }

func draft(spec models.Specialization) IssueDraft {
	loc := models.NewPoint(36.82, -1.29)
	return IssueDraft{
		Title:          "Overflowing bins",
		Description:    "Bins on Moi Avenue have not been collected for a week",
		Specialization: spec,
		Location:       &loc,
	}
}

func (f *fixture) create(t *testing.T, owner *models.Identity, spec models.Specialization) *models.Issue {
	t.Helper()
	issue, err := f.svc.Create(context.Background(), owner, draft(spec))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return issue
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("error kind = %s, want %s (%v)", got, kind, err)
	}
}
