package services

import (
	"context"
	"errors"
	"strings"

	"civicreport-be/models"
	"civicreport-be/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	anonymousPrefix = "anonymous_"
	userPrefix      = "user:"
	anonymousName   = "Anonymous"
	maxSessionLen   = 128
)

// Engager is whoever likes or comments. Token is the identity stored in
// the liker set and on comments.
type Engager struct {
	Token string
	Name  string
}

// UserToken is the engagement token of an authenticated user. Session
// headers can never produce it.
func UserToken(id primitive.ObjectID) string { return userPrefix + id.Hex() }

// ResolveEngager picks the engagement identity: the authenticated user
// id, else the client's session header, else a fresh anonymous token.
// generated is true when the caller must hand the new token back.
func ResolveEngager(actor *models.Identity, sessionHeader string, newToken func() string) (e Engager, generated bool) {
	if actor != nil && !actor.ID.IsZero() {
		return Engager{Token: UserToken(actor.ID), Name: actor.Username}, false
	}
	session := strings.TrimSpace(sessionHeader)
	if session != "" && len(session) <= maxSessionLen && !strings.HasPrefix(session, userPrefix) {
		return Engager{Token: session, Name: anonymousName}, false
	}
	return Engager{Token: anonymousPrefix + newToken(), Name: anonymousName}, true
}

// LikeResult is returned from ToggleLike.
type LikeResult struct {
	Likes []string `json:"likes"`
	Liked bool     `json:"liked"`
	Count int      `json:"count"`
}

// ToggleLike adds the engager to the liker set, or removes them if
// already present.
func (s *IssueService) ToggleLike(ctx context.Context, who Engager, id primitive.ObjectID) (*LikeResult, error) {
	if who.Token == "" {
		return nil, validationError("session", "Session identity is required")
	}
	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := toggle(&issue.Likes, who.Token)
	if err := s.saveEngagement(ctx, issue); err != nil {
		return nil, err
	}
	return &LikeResult{Likes: issue.Likes, Liked: liked, Count: len(issue.Likes)}, nil
}

// toggle flips membership of token and reports whether it is now present.
func toggle(set *[]string, token string) bool {
	for i, v := range *set {
		if v == token {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return false
		}
	}
	*set = append(*set, token)
	return true
}

// AddComment appends a comment. Content must be non-empty after trimming.
func (s *IssueService) AddComment(ctx context.Context, who Engager, id primitive.ObjectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("content", "Comment content is required")
	}
	if who.Token == "" {
		return nil, validationError("session", "Session identity is required")
	}
	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	name := who.Name
	if name == "" {
		name = anonymousName
	}
	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		Content:    content,
		Author:     who.Token,
		AuthorName: name,
		CreatedAt:  s.now(),
	}
	issue.Comments = append(issue.Comments, comment)
	if err := s.saveEngagement(ctx, issue); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Comments lists an issue's comments oldest first.
func (s *IssueService) Comments(ctx context.Context, id primitive.ObjectID) ([]models.Comment, error) {
	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue.Comments == nil {
		return []models.Comment{}, nil
	}
	return issue.Comments, nil
}

func (s *IssueService) saveEngagement(ctx context.Context, issue *models.Issue) error {
	err := s.issues.Save(ctx, issue)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Issue")
	}
	if err != nil {
		return persistence("save engagement", err)
	}
	return nil
}
