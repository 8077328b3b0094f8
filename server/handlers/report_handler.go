package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"planact/pipeline"
	"planact/quality"
	"planact/report"
	"planact/server/middleware"
	"planact/table"

	apperrors "planact/server/errors"
)

// ReportConfig holds the settings the report endpoints need.
type ReportConfig struct {
	MaxUploadBytes int64
	PreviewRows    int
	SheetName      string
	FileName       string
}

// ReportHandler runs the reconciliation for uploaded files.
type ReportHandler struct {
	pipeline *pipeline.Pipeline
	cfg      ReportConfig
	logger   *slog.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(p *pipeline.Pipeline, cfg ReportConfig, logger *slog.Logger) *ReportHandler {
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 5
	}
	if cfg.FileName == "" {
		cfg.FileName = report.DefaultFileName
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{pipeline: p, cfg: cfg, logger: logger}
}

// PreviewResponse is the body of a successful preview.
type PreviewResponse struct {
	RunID          string                   `json:"run_id"`
	RowCount       int                      `json:"row_count"`
	Columns        []string                 `json:"columns"`
	Rows           []map[string]table.Value `json:"rows" swaggertype:"array,object"`
	MissingActuals int                      `json:"missing_actuals"`
	Warnings       []quality.Warning        `json:"warnings"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	TotalErrors int64  `json:"total_errors"`
}

// HandlePreview runs the reconciliation and returns the first rows as JSON.
// @Summary Preview the plan vs actuals report
// @Description Uploads the five input files, runs the reconciliation and returns the first rows of the final report with any data-quality warnings
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param shopfloor formData file true "Shopfloor data"
// @Param order_book formData file true "Order book"
// @Param product_mapping formData file true "Product mapping"
// @Param loading_plan formData file true "Loading plan"
// @Param signoff formData file true "Sign-off data"
// @Param rows query int false "Number of preview rows"
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing file or invalid data"
// @Failure 413 {object} middleware.ErrorResponse "Upload too large"
// @Failure 429 {object} middleware.ErrorResponse "Rate limited"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/reports/preview [post]
func (h *ReportHandler) HandlePreview(c *gin.Context) {
	rows := h.cfg.PreviewRows
	if q := c.Query("rows"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			SendJSONError(c, apperrors.NewValidationError("rows must be a non-negative integer", err))
			return
		}
		rows = n
	}

	res, ok := h.run(c)
	if !ok {
		return
	}

	head := res.Final.Head(rows)
	SendJSONResponse(c, http.StatusOK, PreviewResponse{
		RunID:          res.RunID,
		RowCount:       res.Final.Len(),
		Columns:        head.Columns(),
		Rows:           head.Records(),
		MissingActuals: res.Signoff.MissingActuals,
		Warnings:       nonNil(res.Warnings),
	})
}

// HandleExport runs the reconciliation and returns the final report workbook.
// @Summary Download the plan vs actuals report
// @Description Uploads the five input files and returns the final report as a single-sheet workbook
// @Tags reports
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param shopfloor formData file true "Shopfloor data"
// @Param order_book formData file true "Order book"
// @Param product_mapping formData file true "Product mapping"
// @Param loading_plan formData file true "Loading plan"
// @Param signoff formData file true "Sign-off data"
// @Success 200 {file} file
// @Failure 400 {object} middleware.ErrorResponse "Missing file or invalid data"
// @Failure 413 {object} middleware.ErrorResponse "Upload too large"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/reports/export [post]
func (h *ReportHandler) HandleExport(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	h.sendWorkbook(c, res, res.Final, h.cfg.FileName)
}

// HandleCrossTabExport returns the schedule by date matrix of planned and
// actual quantities as a workbook.
// @Summary Download the plan vs actuals cross-tab
// @Description Uploads the five input files and returns planned and actual quantities per schedule and date
// @Tags reports
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param shopfloor formData file true "Shopfloor data"
// @Param order_book formData file true "Order book"
// @Param product_mapping formData file true "Product mapping"
// @Param loading_plan formData file true "Loading plan"
// @Param signoff formData file true "Sign-off data"
// @Success 200 {file} file
// @Failure 400 {object} middleware.ErrorResponse "Missing file or invalid data"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /api/reports/crosstab/export [post]
func (h *ReportHandler) HandleCrossTabExport(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	h.sendWorkbook(c, res, res.CrossTab().Table(), report.FileName(h.cfg.FileName, "crosstab"))
}

// HandleHealth reports that the server is up.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *ReportHandler) HandleHealth(c *gin.Context) {
	SendJSONResponse(c, http.StatusOK, HealthResponse{
		Status:      "ok",
		Time:        time.Now().UTC().Format(time.RFC3339),
		TotalErrors: middleware.GetErrorMetrics().Snapshot().TotalErrors,
	})
}

// run reads the uploads and executes the pipeline. On failure the error
// reply has already been written and ok is false.
func (h *ReportHandler) run(c *gin.Context) (*pipeline.Result, bool) {
	start := time.Now()
	inputs, err := h.readInputs(c)
	if err != nil {
		SendJSONError(c, err)
		return nil, false
	}

	res, err := h.pipeline.Run(c.Request.Context(), inputs)
	if err != nil {
		SendJSONError(c, apperrors.FromPipeline(err).WithContext("pipeline"))
		return nil, false
	}

	h.logger.InfoContext(c.Request.Context(), "report generated",
		"run_id", res.RunID,
		"request_id", middleware.GetRequestIDFromGin(c),
		"rows", res.Final.Len(),
		"warnings", len(res.Warnings),
		"duration_ms", time.Since(start).Milliseconds())
	c.Header("X-Run-ID", res.RunID)
	return res, true
}

// readInputs collects the role-named multipart files. Absent roles are left
// out so the pipeline can report every missing file at once.
func (h *ReportHandler) readInputs(c *gin.Context) (pipeline.Inputs, error) {
	if err := c.Request.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		if middleware.IsBodyTooLarge(err) {
			return nil, apperrors.NewPayloadTooLargeError(
				fmt.Sprintf("Upload exceeds the %d MB limit", h.cfg.MaxUploadBytes>>20), err)
		}
		if err != http.ErrNotMultipart && err != http.ErrMissingBoundary {
			return nil, apperrors.NewValidationError("Could not read the uploaded files", err)
		}
	}

	inputs := make(pipeline.Inputs, len(pipeline.Roles()))
	form := c.Request.MultipartForm
	if form == nil {
		return inputs, nil
	}
	for field := range form.File {
		if !pipeline.Role(field).Valid() {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("Unexpected file field %q; expected one of %s", field, roleList()), nil)
		}
	}
	for _, role := range pipeline.Roles() {
		files := form.File[string(role)]
		if len(files) == 0 {
			continue
		}
		data, err := readFormFile(files[0])
		if err != nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("Could not read the %s file", role.Label()), err)
		}
		inputs.Add(role, files[0].Filename, data)
	}
	return inputs, nil
}

func roleList() string {
	names := make([]string, 0, len(pipeline.Roles()))
	for _, r := range pipeline.Roles() {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *ReportHandler) sendWorkbook(c *gin.Context, res *pipeline.Result, t *table.Table, fileName string) {
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, t, report.Options{SheetName: h.cfg.SheetName}); err != nil {
		SendJSONError(c, apperrors.WrapError(err, "failed to write workbook"))
		return
	}
	c.Header("X-Warnings-Count", strconv.Itoa(len(res.Warnings)))
	SendAttachment(c, fileName, XLSXContentType, &buf)
}

func nonNil(ws []quality.Warning) []quality.Warning {
	if ws == nil {
		return []quality.Warning{}
	}
	return ws
}
