package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/services"
)

type VolunteerController struct {
	volunteers *services.VolunteerService
}

func NewVolunteerController(volunteers *services.VolunteerService) *VolunteerController {
	return &VolunteerController{volunteers: volunteers}
}

type VolunteerRequest struct {
	Skills           []string `json:"skills"`
	Availability     *bool    `json:"availability"`
	CurrentLatitude  *float64 `json:"current_latitude" binding:"omitempty,gte=-90,lte=90"`
	CurrentLongitude *float64 `json:"current_longitude" binding:"omitempty,gte=-180,lte=180"`
	Status           *string  `json:"status" binding:"omitempty,volunteer_status"`
}

func (r VolunteerRequest) input() services.VolunteerProfileInput {
	input := services.VolunteerProfileInput{
		Skills:           r.Skills,
		Availability:     r.Availability,
		CurrentLatitude:  r.CurrentLatitude,
		CurrentLongitude: r.CurrentLongitude,
	}
	if r.Status != nil {
		status := models.VolunteerStatus(*r.Status)
		input.Status = &status
	}
	return input
}

// List supports ?available=true to show only volunteers that can take a new assignment.
func (vc *VolunteerController) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	volunteers, err := vc.volunteers.List(c.Request.Context(), actor, c.Query("available") == "true")
	if err != nil {
		respondError(c, err, "volunteer_controller")
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

func (vc *VolunteerController) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	volunteer, err := vc.volunteers.GetByUserID(c.Request.Context(), actor, userID)
	if err != nil {
		respondError(c, err, "volunteer_controller")
		return
	}
	c.JSON(http.StatusOK, volunteer)
}

func (vc *VolunteerController) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req VolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	volunteer, err := vc.volunteers.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, err, "volunteer_controller")
		return
	}
	c.JSON(http.StatusCreated, volunteer)
}

func (vc *VolunteerController) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	var req VolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	volunteer, err := vc.volunteers.Update(c.Request.Context(), actor, userID, req.input())
	if err != nil {
		respondError(c, err, "volunteer_controller")
		return
	}
	c.JSON(http.StatusOK, volunteer)
}
