package services

import (
	"context"
	"sort"
	"time"

	"civicreport-be/models"
	"civicreport-be/policy"
)

const (
	topLikedLimit  = 5
	defaultMapPins = 20
	maxMapPins     = 200
)

// Dashboard aggregates the issues in actor's dashboard scope.
func (s *IssueService) Dashboard(ctx context.Context, actor *models.Identity) (*models.Dashboard, error) {
	scope, filter := policy.DashboardScope(actor)
	issues, err := s.query(ctx, filter)
	if err != nil {
		return nil, err
	}
	return summarize(scope, issues, s.now()), nil
}

func summarize(scope string, issues []models.Issue, now time.Time) *models.Dashboard {
	d := &models.Dashboard{
		Scope:       scope,
		TotalIssues: len(issues),
		ByStatus:    make(map[models.IssueStatus]int, len(models.Statuses)),
	}
	for _, st := range models.Statuses {
		d.ByStatus[st] = 0
	}

	bySpec := make(map[models.Specialization]int)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := today.AddDate(0, 0, -6)
	perDay := make([]int, 7)

	for _, issue := range issues {
		d.ByStatus[issue.Status]++
		if issue.Status != models.Resolved {
			d.OpenIssues++
		}
		bySpec[issue.Specialization]++

		created := issue.CreatedAt.In(now.Location())
		if !created.Before(first) && created.Before(today.AddDate(0, 0, 1)) {
			perDay[int(created.Sub(first)/(24*time.Hour))]++
		}
	}

	d.BySpecialization = []models.CategoryCount{}
	for _, spec := range models.Specializations {
		if n := bySpec[spec]; n > 0 {
			d.BySpecialization = append(d.BySpecialization, models.CategoryCount{Name: spec, Value: n})
		}
	}

	d.Last7Days = make([]models.DayCount, 0, 7)
	for i, n := range perDay {
		d.Last7Days = append(d.Last7Days, models.DayCount{
			Date:  first.AddDate(0, 0, i).Format("2006-01-02"),
			Count: n,
		})
	}

	ranked := make([]models.RankedIssue, 0, len(issues))
	for _, issue := range issues {
		ranked = append(ranked, models.RankedIssue{
			ID:             issue.ID,
			Title:          issue.Title,
			Specialization: issue.Specialization,
			Likes:          len(issue.Likes),
		})
	}
	// issues arrive newest first; stable sort keeps recency as tie-break
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Likes > ranked[j].Likes
	})
	if len(ranked) > topLikedLimit {
		ranked = ranked[:topLikedLimit]
	}
	d.TopLiked = ranked
	return d
}

// Map returns the newest unresolved issues as map pins.
func (s *IssueService) Map(ctx context.Context, limit int) ([]models.MapPin, error) {
	if limit <= 0 {
		limit = defaultMapPins
	}
	if limit > maxMapPins {
		limit = maxMapPins
	}
	issues, err := s.query(ctx, policy.PublicScope())
	if err != nil {
		return nil, err
	}

	pins := make([]models.MapPin, 0, limit)
	for _, issue := range issues {
		if len(pins) == limit {
			break
		}
		pins = append(pins, models.MapPin{
			ID:             issue.ID,
			Title:          issue.Title,
			Specialization: issue.Specialization,
			Status:         issue.Status,
			Latitude:       issue.Location.Lat(),
			Longitude:      issue.Location.Lng(),
			CreatedAt:      issue.CreatedAt,
		})
	}
	return pins, nil
}
