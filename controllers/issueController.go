package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"civicreport-be/middlewares"
	"civicreport-be/models"
	"civicreport-be/services"
	"civicreport-be/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type IssueController struct {
	issues *services.IssueService
	photos storage.PhotoStore
	log    *slog.Logger
}

// NewIssueController wires the issue handlers. photos may be nil, in which
// case uploaded files are rejected.
func NewIssueController(issues *services.IssueService, photos storage.PhotoStore, log *slog.Logger) *IssueController {
	return &IssueController{issues: issues, photos: photos, log: log}
}

// issuePayload is the shared create/update body. Multipart forms are
// copied into it so both encodings validate the same way.
type issuePayload struct {
	Title          *string                `json:"title"`
	Description    *string                `json:"description"`
	Specialization *models.Specialization `json:"specialization" binding:"omitempty,specialization"`
	Location       json.RawMessage        `json:"location"`
	Photo          *string                `json:"photo"`
	Status         *models.IssueStatus    `json:"status" binding:"omitempty,status"`

	location *models.GeoPoint
	upload   *storage.Upload
}

type issueView struct {
	*models.Issue
	NextStatuses []models.IssueStatus `json:"nextStatuses"`
}

func (ic *IssueController) readPayload(c *gin.Context) (*issuePayload, bool) {
	var p issuePayload
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if !ic.readForm(c, &p) {
			return nil, false
		}
	} else if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return nil, false
	}

	if len(p.Location) > 0 && string(p.Location) != "null" {
		point, err := models.ParsePoint(p.Location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "field": "location"})
			return nil, false
		}
		p.location = &point
	}
	return &p, true
}

func (ic *IssueController) readForm(c *gin.Context, p *issuePayload) bool {
	formValue := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	p.Title = formValue("title")
	p.Description = formValue("description")
	p.Photo = formValue("photo")
	if v := formValue("specialization"); v != nil {
		spec := models.Specialization(*v)
		p.Specialization = &spec
	}
	if v := formValue("status"); v != nil {
		status := models.IssueStatus(*v)
		p.Status = &status
	}
	if v := formValue("location"); v != nil && strings.TrimSpace(*v) != "" {
		p.Location = json.RawMessage(*v)
	}
	if err := binding.Validator.ValidateStruct(p); err != nil {
		badRequest(c, err)
		return false
	}

	header, err := c.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return true
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid photo upload", "field": "photo"})
		return false
	case ic.photos == nil:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Photo uploads are disabled", "field": "photo"})
		return false
	}
	upload, err := storage.NewUpload(ic.photos, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "field": "photo"})
		return false
	}
	p.upload = upload
	return true
}

// Go typed-nil interfaces would otherwise look like a real upload.
func (p *issuePayload) photoUpload() services.PhotoUpload {
	if p.upload == nil {
		return nil
	}
	return p.upload
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// CreateIssue handles the creation of a new issue
func (ic *IssueController) CreateIssue(c *gin.Context) {
	p, ok := ic.readPayload(c)
	if !ok {
		return
	}

	issue, err := ic.issues.Create(c.Request.Context(), middlewares.IdentityFrom(c), services.IssueDraft{
		Title:          deref(p.Title),
		Description:    deref(p.Description),
		Specialization: deref(p.Specialization),
		Location:       p.location,
		Photo:          deref(p.Photo),
		Upload:         p.photoUpload(),
	})
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues lists issues in the caller's scope
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	issues, err := ic.issues.List(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetPublicIssues lists every unresolved issue
func (ic *IssueController) GetPublicIssues(c *gin.Context) {
	issues, err := ic.issues.Public(c.Request.Context())
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetIssueMap returns recent unresolved issues as map pins
func (ic *IssueController) GetIssueMap(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive integer", "field": "limit"})
			return
		}
		limit = n
	}

	pins, err := ic.issues.Map(c.Request.Context(), limit)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, pins)
}

// GetIssue returns one issue with the statuses the caller can move it to
func (ic *IssueController) GetIssue(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}

	actor := middlewares.IdentityFrom(c)
	issue, err := ic.issues.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issueView{Issue: issue, NextStatuses: ic.issues.NextStatuses(actor, issue)})
}

// UpdateIssue applies content and status changes
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	p, ok := ic.readPayload(c)
	if !ok {
		return
	}

	issue, err := ic.issues.Update(c.Request.Context(), middlewares.IdentityFrom(c), id, services.IssueUpdate{
		Title:          p.Title,
		Description:    p.Description,
		Specialization: p.Specialization,
		Location:       p.location,
		Photo:          p.Photo,
		Upload:         p.photoUpload(),
		Status:         p.Status,
	})
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// DeleteIssue removes an issue
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	if err := ic.issues.Delete(c.Request.Context(), middlewares.IdentityFrom(c), id); err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue removed"})
}

// LikeIssue toggles the caller's like
func (ic *IssueController) LikeIssue(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	result, err := ic.issues.ToggleLike(c.Request.Context(), middlewares.EngagerFrom(c), id)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddComment appends a comment
func (ic *IssueController) AddComment(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	comment, err := ic.issues.AddComment(c.Request.Context(), middlewares.EngagerFrom(c), id, input.Content)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GetComments lists an issue's comments in order
func (ic *IssueController) GetComments(c *gin.Context) {
	id, err := services.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	comments, err := ic.issues.Comments(c.Request.Context(), id)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
