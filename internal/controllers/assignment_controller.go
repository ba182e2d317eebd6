package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/repository"
	"github.com/responsehub/backend/internal/services"
)

type AssignmentController struct {
	assignments *services.AssignmentService
}

func NewAssignmentController(assignments *services.AssignmentService) *AssignmentController {
	return &AssignmentController{assignments: assignments}
}

type CreateAssignmentRequest struct {
	IncidentID  uint `json:"incident_id" binding:"required"`
	VolunteerID uint `json:"volunteer_id" binding:"required"`
}

type UpdateAssignmentRequest struct {
	Status string `json:"status" binding:"required,assignment_status"`
}

// List returns the caller's assignments, or all of them for coordinators.
// Coordinators may narrow it with ?incident_id=.
func (ac *AssignmentController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var filter repository.AssignmentFilter
	if raw := c.Query("incident_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid incident_id"})
			return
		}
		filter.IncidentID = uint(id)
	}

	assignments, err := ac.assignments.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err, "assignment_controller")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (ac *AssignmentController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	assignment, err := ac.assignments.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "assignment_controller")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (ac *AssignmentController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if !policy.CanManageAssignments(actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only coordinators can create assignments"})
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	assignment, err := ac.assignments.Create(c.Request.Context(), actor, req.IncidentID, req.VolunteerID)
	if err != nil {
		respondError(c, err, "assignment_controller")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (ac *AssignmentController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	assignment, err := ac.assignments.Transition(c.Request.Context(), actor, id, models.AssignmentStatus(req.Status))
	if err != nil {
		respondError(c, err, "assignment_controller")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (ac *AssignmentController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.assignments.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err, "assignment_controller")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
