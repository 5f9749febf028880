package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Specialization enum shared by issues and staff accounts
type Specialization string

const (
	WaterIssue Specialization = "Water Issue"
	Sanitation Specialization = "Sanitation"
	Pothole    Specialization = "Pothole"
	Garbage    Specialization = "Garbage"
	Traffic    Specialization = "Traffic"
	Other      Specialization = "Other"
)

// Specializations lists every category in display order.
var Specializations = []Specialization{WaterIssue, Sanitation, Pothole, Garbage, Traffic, Other}

func (s Specialization) Valid() bool {
	for _, v := range Specializations {
		if s == v {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
)

// Statuses lists the lifecycle states in forward order.
var Statuses = []IssueStatus{Pending, InProgress, Resolved}

func (s IssueStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the position of s in the forward lifecycle, or -1.
func (s IssueStatus) Rank() int {
	for i, v := range Statuses {
		if s == v {
			return i
		}
	}
	return -1
}

// Comment is an append-only remark on an issue.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Content    string             `bson:"content" json:"content"`
	Author     string             `bson:"author" json:"-"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Specialization Specialization     `bson:"specialization" json:"specialization"`
	Location       GeoPoint           `bson:"location" json:"location"`
	Photo          string             `bson:"photo,omitempty" json:"photo,omitempty"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Status         IssueStatus        `bson:"status" json:"status"`
	Likes          []string           `bson:"likes" json:"likes"`
	Comments       []Comment          `bson:"comments" json:"comments"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the identity filed the issue.
func (i *Issue) OwnedBy(id *Identity) bool {
	return id != nil && !id.ID.IsZero() && i.User == id.ID
}

// Clone returns a deep copy so callers can mutate without aliasing the
// likes and comments slices.
func (i *Issue) Clone() *Issue {
	c := *i
	c.Likes = append([]string(nil), i.Likes...)
	c.Comments = append([]Comment(nil), i.Comments...)
	return &c
}

// IssueFilter is the query vocabulary the policy layer speaks. Zero
// fields are unconstrained.
type IssueFilter struct {
	User           *primitive.ObjectID
	Specialization Specialization
	StatusNot      IssueStatus
}

// Matches evaluates the filter against a single issue.
func (f IssueFilter) Matches(i *Issue) bool {
	if f.User != nil && i.User != *f.User {
		return false
	}
	if f.Specialization != "" && i.Specialization != f.Specialization {
		return false
	}
	if f.StatusNot != "" && i.Status == f.StatusNot {
		return false
	}
	return true
}
