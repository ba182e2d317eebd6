package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/services"
)

type IncidentController struct {
	incidents *services.IncidentService
}

func NewIncidentController(incidents *services.IncidentService) *IncidentController {
	return &IncidentController{incidents: incidents}
}

type CreateIncidentRequest struct {
	Type        string   `json:"type" binding:"required"`
	Latitude    *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Description string   `json:"description"`
	Severity    string   `json:"severity" binding:"required,severity"`
}

type UpdateIncidentRequest struct {
	Type        *string  `json:"type" binding:"omitempty,min=1"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Description *string  `json:"description"`
	Severity    *string  `json:"severity" binding:"omitempty,severity"`
	Status      *string  `json:"status" binding:"omitempty,incident_status"`
}

func (ic *IncidentController) List(c *gin.Context) {
	incidents, err := ic.incidents.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "incident_controller")
		return
	}
	c.JSON(http.StatusOK, incidents)
}

func (ic *IncidentController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	incident, err := ic.incidents.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "incident_controller")
		return
	}
	c.JSON(http.StatusOK, incident)
}

func (ic *IncidentController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	incident, err := ic.incidents.Create(c.Request.Context(), actor, services.CreateIncidentInput{
		Type:        req.Type,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Description: req.Description,
		Severity:    models.IncidentSeverity(req.Severity),
	})
	if err != nil {
		respondError(c, err, "incident_controller")
		return
	}
	c.JSON(http.StatusCreated, incident)
}

func (ic *IncidentController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	input := services.UpdateIncidentInput{
		Type:        req.Type,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
	}
	if req.Severity != nil {
		severity := models.IncidentSeverity(*req.Severity)
		input.Severity = &severity
	}
	if req.Status != nil {
		status := models.IncidentStatus(*req.Status)
		input.Status = &status
	}

	incident, err := ic.incidents.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		respondError(c, err, "incident_controller")
		return
	}
	c.JSON(http.StatusOK, incident)
}

func (ic *IncidentController) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ic.incidents.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err, "incident_controller")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Incident deleted"})
}
