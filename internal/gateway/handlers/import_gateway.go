package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"catering-backoffice/internal/payroll"
	"catering-backoffice/internal/services/attendance"
	"catering-backoffice/internal/spreadsheet"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ImportHTTPHandler struct {
	importer *attendance.Service
}

func NewImportHTTPHandler(importer *attendance.Service) *ImportHTTPHandler {
	return &ImportHTTPHandler{importer: importer}
}

type ImportRequest struct {
	Rows         []payroll.RawRow `json:"rows"`
	Confirm      bool             `json:"confirm"`
	OvertimeRate *decimal.Decimal `json:"overtimeRate"`
}

func (r ImportRequest) batch() attendance.Batch {
	return attendance.Batch{Rows: r.Rows, OvertimeRate: r.OvertimeRate}
}

type previewResponse struct {
	Preview bool                    `json:"preview"`
	Results []attendance.PreviewRow `json:"results"`
	Summary attendance.Summary      `json:"summary"`
	Config  payroll.SalaryConfig    `json:"config"`
}

type confirmResponse struct {
	Success     bool            `json:"success"`
	Imported    int             `json:"imported"`
	TotalSalary decimal.Decimal `json:"totalSalary"`
	BatchID     string          `json:"batchId"`
}

type rejectionSummary struct {
	Valid  int `json:"valid"`
	Errors int `json:"errors"`
}

type rejectionResponse struct {
	Error   string                  `json:"error"`
	Results []attendance.PreviewRow `json:"results"`
	Summary rejectionSummary        `json:"summary"`
}

func (h *ImportHTTPHandler) Preview(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	h.preview(c, req.batch())
}

func (h *ImportHTTPHandler) Confirm(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	h.confirm(c, req.batch())
}

// Import serves the single-endpoint protocol where the confirm flag picks
// the phase.
func (h *ImportHTTPHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if req.Confirm {
		h.confirm(c, req.batch())
		return
	}
	h.preview(c, req.batch())
}

// Upload reads the first worksheet of a multipart "file" and runs it through
// the same preview or confirm path as JSON rows.
func (h *ImportHTTPHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("file is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Unable to open uploaded file"))
		return
	}
	defer f.Close()

	rows, err := spreadsheet.Read(f, header.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Unable to read spreadsheet: "+err.Error()))
		return
	}

	b := attendance.Batch{Rows: rows}
	if raw := strings.TrimSpace(c.PostForm("overtimeRate")); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid overtimeRate"))
			return
		}
		b.OvertimeRate = &rate
	}

	confirm, _ := strconv.ParseBool(c.DefaultPostForm("confirm", "false"))
	if confirm {
		h.confirm(c, b)
		return
	}
	h.preview(c, b)
}

func (h *ImportHTTPHandler) preview(c *gin.Context, b attendance.Batch) {
	ctx, cancel := requestContext(c)
	defer cancel()

	ev, err := h.importer.Preview(ctx, b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, previewResponse{
		Preview: true,
		Results: ev.Results,
		Summary: ev.Summary,
		Config:  ev.Config,
	})
}

func (h *ImportHTTPHandler) confirm(c *gin.Context, b attendance.Batch) {
	ctx, cancel := requestContext(c)
	defer cancel()

	receipt, err := h.importer.Confirm(ctx, b)
	var rejected *attendance.RejectedError
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "Import rejected: fix the rows in error and resubmit",
			Results: rejected.Evaluation.Results,
			Summary: rejectionSummary{
				Valid:  rejected.Evaluation.Summary.Valid,
				Errors: rejected.Evaluation.Summary.Errors,
			},
		})
		return
	case err != nil:
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, confirmResponse{
		Success:     true,
		Imported:    receipt.Imported,
		TotalSalary: receipt.TotalSalary,
		BatchID:     receipt.BatchID,
	})
}
