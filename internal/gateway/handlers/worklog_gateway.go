package handlers

import (
	"net/http"

	"catering-backoffice/internal/services/worklogs"
	"catering-backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

type WorkLogHTTPHandler struct {
	worklogs *worklogs.Service
}

func NewWorkLogHTTPHandler(svc *worklogs.Service) *WorkLogHTTPHandler {
	return &WorkLogHTTPHandler{worklogs: svc}
}

type ListWorkLogsQuery struct {
	StaffID   string `form:"staffId"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Limit     int    `form:"limit,default=200"`
}

func (h *WorkLogHTTPHandler) ListWorkLogs(c *gin.Context) {
	var query ListWorkLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	logs, err := h.worklogs.List(ctx, store.WorkLogFilter{
		StaffID:   query.StaffID,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Limit:     query.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Work logs retrieved successfully", logs, map[string]interface{}{
		"count": len(logs),
		"limit": query.Limit,
	}))
}

func (h *WorkLogHTTPHandler) GetWorkLog(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	log, err := h.worklogs.Get(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Work log retrieved successfully", log))
}

func (h *WorkLogHTTPHandler) CreateWorkLog(c *gin.Context) {
	var req worklogs.ManualEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	log, err := h.worklogs.Create(ctx, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Work log created successfully", log))
}

func (h *WorkLogHTTPHandler) AdjustWorkLog(c *gin.Context) {
	var req worklogs.Adjustment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	log, err := h.worklogs.Adjust(ctx, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Work log updated successfully", log))
}

func (h *WorkLogHTTPHandler) DeleteWorkLog(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.worklogs.Delete(ctx, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Work log deleted successfully", nil))
}
