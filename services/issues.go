package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"civicreport-be/models"
	"civicreport-be/policy"
	"civicreport-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueService applies the access policy and lifecycle around the issue
// repository. Each call validates, then authorizes, then writes once.
type IssueService struct {
	issues    repository.IssueRepository
	lifecycle policy.Lifecycle
	now       func() time.Time
	log       *slog.Logger
}

func NewIssueService(issues repository.IssueRepository, lifecycle policy.Lifecycle, log *slog.Logger) *IssueService {
	if log == nil {
		log = slog.Default()
	}
	return &IssueService{
		issues:    issues,
		lifecycle: lifecycle,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// PhotoUpload is a received photo that is written only after the request
// has passed validation and authorization. Discard removes it again when
// the issue write that follows fails.
type PhotoUpload interface {
	Store(ctx context.Context) (string, error)
	Discard(ctx context.Context) error
}

// IssueDraft is a create request whose location was parsed at the
// boundary. Upload takes precedence over Photo.
type IssueDraft struct {
	Title          string
	Description    string
	Specialization models.Specialization
	Location       *models.GeoPoint
	Photo          string
	Upload         PhotoUpload
}

func (d *IssueDraft) validate() *Error {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" || d.Description == "" || d.Specialization == "" {
		return validationError("", "Title, description, and specialization are required")
	}
	if verr := checkContent(&d.Title, &d.Description, &d.Specialization, d.Location); verr != nil {
		return verr
	}
	if d.Location == nil {
		return validationError("location", models.ErrLocationMissing.Error())
	}
	return nil
}

// IssueUpdate carries only the fields the caller sent.
type IssueUpdate struct {
	Title          *string
	Description    *string
	Specialization *models.Specialization
	Location       *models.GeoPoint
	Photo          *string
	Upload         PhotoUpload
	Status         *models.IssueStatus
}

func (u *IssueUpdate) touchesContent() bool {
	return u.Title != nil || u.Description != nil || u.Specialization != nil ||
		u.Location != nil || u.Photo != nil || u.Upload != nil
}

func (u *IssueUpdate) validate() *Error {
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		if t == "" {
			return validationError("title", "Title cannot be empty")
		}
		u.Title = &t
	}
	if u.Description != nil {
		d := strings.TrimSpace(*u.Description)
		if d == "" {
			return validationError("description", "Description cannot be empty")
		}
		u.Description = &d
	}
	if verr := checkContent(u.Title, u.Description, u.Specialization, u.Location); verr != nil {
		return verr
	}
	if u.Status != nil && !u.Status.Valid() {
		return validationError("status", "Invalid status")
	}
	return nil
}

func checkContent(title, description *string, spec *models.Specialization, loc *models.GeoPoint) *Error {
	if title != nil && len(*title) > maxTitleLength {
		return validationError("title", "Title is too long")
	}
	if description != nil && len(*description) > maxDescriptionLength {
		return validationError("description", "Description is too long")
	}
	if spec != nil && !spec.Valid() {
		return validationError("specialization", "Invalid specialization")
	}
	if loc != nil {
		if err := loc.Validate(); err != nil {
			return validationError("location", err.Error())
		}
	}
	return nil
}

func requireIdentity(actor *models.Identity) *Error {
	if actor == nil {
		return unauthenticated("Not authorized, no token")
	}
	return nil
}

func (s *IssueService) load(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Issue")
	}
	if err != nil {
		return nil, persistence("load issue", err)
	}
	return issue, nil
}

func (s *IssueService) query(ctx context.Context, f models.IssueFilter) ([]models.Issue, error) {
	issues, err := s.issues.Query(ctx, f)
	if err != nil {
		return nil, persistence("query issues", err)
	}
	return issues, nil
}

// discardPhoto is best effort; a leftover photo only costs storage.
func (s *IssueService) discardPhoto(ctx context.Context, up PhotoUpload) {
	if up == nil {
		return
	}
	if err := up.Discard(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("discard photo", "err", err)
	}
}

// Create files a new Pending issue owned by actor.
func (s *IssueService) Create(ctx context.Context, actor *models.Identity, draft IssueDraft) (*models.Issue, error) {
	if verr := requireIdentity(actor); verr != nil {
		return nil, verr
	}
	if verr := draft.validate(); verr != nil {
		return nil, verr
	}
	if !policy.CanCreate(actor) {
		return nil, forbidden()
	}
	if draft.Upload != nil {
		url, err := draft.Upload.Store(ctx)
		if err != nil {
			return nil, persistence("store photo", err)
		}
		draft.Photo = url
	}

	now := s.now()
	issue := &models.Issue{
		ID:             primitive.NewObjectID(),
		Title:          draft.Title,
		Description:    draft.Description,
		Specialization: draft.Specialization,
		Location:       *draft.Location,
		Photo:          draft.Photo,
		User:           actor.ID,
		Status:         models.Pending,
		Likes:          []string{},
		Comments:       []models.Comment{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		s.discardPhoto(ctx, draft.Upload)
		return nil, persistence("create issue", err)
	}
	s.log.Info("issue created", "issue_id", issue.ID.Hex(), "user_id", actor.ID.Hex(), "specialization", issue.Specialization)
	return issue, nil
}

// Get returns one issue to its owner or an admin.
func (s *IssueService) Get(ctx context.Context, actor *models.Identity, id primitive.ObjectID) (*models.Issue, error) {
	if verr := requireIdentity(actor); verr != nil {
		return nil, verr
	}
	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, issue) {
		return nil, forbidden()
	}
	return issue, nil
}

// NextStatuses lists the statuses actor may move issue to.
func (s *IssueService) NextStatuses(actor *models.Identity, issue *models.Issue) []models.IssueStatus {
	if !policy.CanChangeStatus(actor, issue) {
		return []models.IssueStatus{}
	}
	return s.lifecycle.NextStates(issue.Status)
}

// List returns the role-scoped listing; actor may be nil.
func (s *IssueService) List(ctx context.Context, actor *models.Identity) ([]models.Issue, error) {
	return s.query(ctx, policy.ListScope(actor))
}

// ListOwn returns the caller's own issues, resolved included.
func (s *IssueService) ListOwn(ctx context.Context, actor *models.Identity) ([]models.Issue, error) {
	if verr := requireIdentity(actor); verr != nil {
		return nil, verr
	}
	id := actor.ID
	return s.query(ctx, models.IssueFilter{User: &id})
}

func (s *IssueService) Public(ctx context.Context) ([]models.Issue, error) {
	return s.query(ctx, policy.PublicScope())
}

// Update authorizes every requested change against the stored issue
// before applying any of them.
func (s *IssueService) Update(ctx context.Context, actor *models.Identity, id primitive.ObjectID, upd IssueUpdate) (*models.Issue, error) {
	if verr := requireIdentity(actor); verr != nil {
		return nil, verr
	}
	if verr := upd.validate(); verr != nil {
		return nil, verr
	}
	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanEdit(actor, issue) {
		return nil, forbidden()
	}
	statusChange := upd.Status != nil && *upd.Status != issue.Status
	if statusChange {
		if !policy.CanChangeStatus(actor, issue) {
			return nil, forbidden()
		}
		if err := s.lifecycle.Transition(issue.Status, *upd.Status); err != nil {
			return nil, validationError("status", err.Error())
		}
	}
	if !upd.touchesContent() && !statusChange {
		return issue, nil
	}
	if upd.Upload != nil {
		url, err := upd.Upload.Store(ctx)
		if err != nil {
			return nil, persistence("store photo", err)
		}
		upd.Photo = &url
	}

	previous := issue.Status
	if upd.Title != nil {
		issue.Title = *upd.Title
	}
	if upd.Description != nil {
		issue.Description = *upd.Description
	}
	if upd.Specialization != nil {
		issue.Specialization = *upd.Specialization
	}
	if upd.Location != nil {
		issue.Location = *upd.Location
	}
	if upd.Photo != nil {
		issue.Photo = *upd.Photo
	}
	if statusChange {
		issue.Status = *upd.Status
	}
	issue.UpdatedAt = s.now()

	if err := s.issues.Save(ctx, issue); err != nil {
		s.discardPhoto(ctx, upd.Upload)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Issue")
		}
		return nil, persistence("save issue", err)
	}
	if statusChange {
		s.log.Info("issue status changed", "issue_id", issue.ID.Hex(), "from", previous, "to", issue.Status, "actor_id", actor.ID.Hex(), "actor_role", actor.Role)
	}
	return issue, nil
}

// Delete removes an issue for its owner or an admin.
func (s *IssueService) Delete(ctx context.Context, actor *models.Identity, id primitive.ObjectID) error {
	if verr := requireIdentity(actor); verr != nil {
		return verr
	}
	issue, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(actor, issue) {
		return forbidden()
	}
	if err := s.issues.Delete(ctx, issue); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Issue")
		}
		return persistence("delete issue", err)
	}
	s.log.Info("issue deleted", "issue_id", issue.ID.Hex(), "actor_id", actor.ID.Hex())
	return nil
}
