package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"civicreport-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryIssues keeps issues in process. Reads and writes hand out copies
// so callers never share slices with the store.
type MemoryIssues struct {
	mu     sync.RWMutex
	issues map[primitive.ObjectID]*models.Issue
}

func NewMemoryIssues() *MemoryIssues {
	return &MemoryIssues{issues: make(map[primitive.ObjectID]*models.Issue)}
}

func (r *MemoryIssues) Create(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	if _, ok := r.issues[issue.ID]; ok {
		return ErrDuplicate
	}
	r.issues[issue.ID] = issue.Clone()
	return nil
}

func (r *MemoryIssues) FindByID(_ context.Context, id primitive.ObjectID) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return issue.Clone(), nil
}

func (r *MemoryIssues) Query(_ context.Context, f models.IssueFilter) ([]models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Issue{}
	for _, issue := range r.issues {
		if f.Matches(issue) {
			out = append(out, *issue.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryIssues) Save(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[issue.ID]; !ok {
		return ErrNotFound
	}
	r.issues[issue.ID] = issue.Clone()
	return nil
}

func (r *MemoryIssues) Delete(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[issue.ID]; !ok {
		return ErrNotFound
	}
	delete(r.issues, issue.ID)
	return nil
}

// Len reports how many issues are stored.
func (r *MemoryIssues) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.issues)
}

// MemoryUsers enforces the same unique email and username keys as the
// Mongo indexes.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[primitive.ObjectID]models.User)}
}

func (r *MemoryUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}
