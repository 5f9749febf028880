// Package policy decides who may do what to an issue. Every function is
// a pure decision over a resolved identity and the stored issue.
package policy

import "civicreport-be/models"

func isAdmin(actor *models.Identity) bool {
	return actor != nil && actor.Role == models.RoleAdmin
}

func isOfficerFor(actor *models.Identity, issue *models.Issue) bool {
	return actor != nil &&
		actor.Role == models.RoleOfficer &&
		actor.Specialization != "" &&
		actor.Specialization == issue.Specialization
}

// CanCreate allows only plain users to file issues.
func CanCreate(actor *models.Identity) bool {
	return actor != nil && actor.Role == models.RoleUser
}

func CanView(actor *models.Identity, issue *models.Issue) bool {
	return issue.OwnedBy(actor) || isAdmin(actor)
}

// CanEdit covers the content fields: title, description, specialization,
// photo and location.
func CanEdit(actor *models.Identity, issue *models.Issue) bool {
	return issue.OwnedBy(actor) || isAdmin(actor) || isOfficerFor(actor, issue)
}

// CanChangeStatus ignores ownership.
func CanChangeStatus(actor *models.Identity, issue *models.Issue) bool {
	return isAdmin(actor) || isOfficerFor(actor, issue)
}

func CanDelete(actor *models.Identity, issue *models.Issue) bool {
	return issue.OwnedBy(actor) || isAdmin(actor)
}

// ListScope returns the filter applied to the bulk listing for actor.
func ListScope(actor *models.Identity) models.IssueFilter {
	if actor == nil {
		return models.IssueFilter{StatusNot: models.Resolved}
	}
	switch actor.Role {
	case models.RoleAdmin:
		return models.IssueFilter{}
	case models.RoleOfficer:
		return models.IssueFilter{Specialization: actor.Specialization, StatusNot: models.Resolved}
	default:
		id := actor.ID
		return models.IssueFilter{User: &id}
	}
}

// DashboardScope is ListScope except officers also count resolved work.
func DashboardScope(actor *models.Identity) (string, models.IssueFilter) {
	if actor == nil {
		return "public", models.IssueFilter{StatusNot: models.Resolved}
	}
	switch actor.Role {
	case models.RoleAdmin:
		return "all", models.IssueFilter{}
	case models.RoleOfficer:
		return "specialization", models.IssueFilter{Specialization: actor.Specialization}
	default:
		id := actor.ID
		return "own", models.IssueFilter{User: &id}
	}
}

// PublicScope is what anyone may see without an account.
func PublicScope() models.IssueFilter {
	return models.IssueFilter{StatusNot: models.Resolved}
}
