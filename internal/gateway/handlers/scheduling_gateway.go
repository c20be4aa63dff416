package handlers

import (
	"net/http"

	"catering-backoffice/internal/services/scheduling"

	"github.com/gin-gonic/gin"
)

type SchedulingHTTPHandler struct {
	scheduling *scheduling.Service
}

func NewSchedulingHTTPHandler(svc *scheduling.Service) *SchedulingHTTPHandler {
	return &SchedulingHTTPHandler{scheduling: svc}
}

type AvailabilityRangeQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type UpdateAttendanceRequest struct {
	AttendanceStatus string `json:"attendanceStatus" binding:"required"`
}

// --- Staff availability ---

func (h *SchedulingHTTPHandler) ListAvailability(c *gin.Context) {
	var query AvailabilityRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.scheduling.ListAvailability(ctx, c.Param("id"), query.StartDate, query.EndDate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Availability retrieved successfully", records))
}

func (h *SchedulingHTTPHandler) SetAvailability(c *gin.Context) {
	var req scheduling.AvailabilityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rec, err := h.scheduling.SetAvailability(ctx, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Availability saved successfully", rec))
}

func (h *SchedulingHTTPHandler) DeleteAvailability(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.scheduling.DeleteAvailability(ctx, c.Param("id"), c.Query("date")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Availability deleted successfully", nil))
}

// --- Event assignments ---

func (h *SchedulingHTTPHandler) AssignStaff(c *gin.Context) {
	var req scheduling.AssignInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	assignment, err := h.scheduling.Assign(ctx, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Staff assigned successfully", assignment))
}

func (h *SchedulingHTTPHandler) UpdateAttendance(c *gin.Context) {
	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	attendance, err := h.scheduling.UpdateAttendance(ctx, c.Param("id"), c.Param("staffId"), req.AttendanceStatus)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Attendance updated successfully", attendance))
}

func (h *SchedulingHTTPHandler) UnassignStaff(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.scheduling.Unassign(ctx, c.Param("id"), c.Param("staffId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Staff removed from event", nil))
}
