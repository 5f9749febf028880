package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryCount struct {
	Name  Specialization `json:"name"`
	Value int            `json:"value"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type RankedIssue struct {
	ID             primitive.ObjectID `json:"id"`
	Title          string             `json:"title"`
	Specialization Specialization     `json:"specialization"`
	Likes          int                `json:"likes"`
}

// Dashboard aggregates the issues visible to one actor.
type Dashboard struct {
	Scope            string              `json:"scope"`
	TotalIssues      int                 `json:"totalIssues"`
	OpenIssues       int                 `json:"openIssues"`
	ByStatus         map[IssueStatus]int `json:"byStatus"`
	BySpecialization []CategoryCount     `json:"issuesBySpecialization"`
	Last7Days        []DayCount          `json:"last7Days"`
	TopLiked         []RankedIssue       `json:"topLikedIssues"`
}

// MapPin is the projection served to the public map.
type MapPin struct {
	ID             primitive.ObjectID `json:"id"`
	Title          string             `json:"title"`
	Specialization Specialization     `json:"specialization"`
	Status         IssueStatus        `json:"status"`
	Latitude       float64            `json:"latitude"`
	Longitude      float64            `json:"longitude"`
	CreatedAt      time.Time          `json:"createdAt"`
}
