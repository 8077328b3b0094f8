package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planact/internal/testhelpers"
	"planact/pipeline"
	"planact/report"
	"planact/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg ReportConfig) *gin.Engine {
	t.Helper()
	h := NewReportHandler(pipeline.New(pipeline.Options{}), cfg, nil)
	r := gin.New()
	r.Use(middleware.GinRequestIDMiddleware())
	r.POST("/api/reports/preview", h.HandlePreview)
	r.POST("/api/reports/export", h.HandleExport)
	r.POST("/api/reports/crosstab/export", h.HandleCrossTabExport)
	r.GET("/health", h.HandleHealth)
	r.GET("/api/errors/metrics", NewErrorMetricsHandler().GetErrorMetrics)
	return r
}

func uploadRequest(t *testing.T, url string, files map[pipeline.Role][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, role := range pipeline.Roles() {
		data, ok := files[role]
		if !ok {
			continue
		}
		fw, err := mw.CreateFormFile(string(role), string(role)+".xlsx")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func sampleFiles(t *testing.T) map[pipeline.Role][]byte {
	in := testhelpers.SampleInputs(t)
	return map[pipeline.Role][]byte{
		pipeline.RoleShopfloor:      in.Shopfloor,
		pipeline.RoleOrderBook:      in.OrderBook,
		pipeline.RoleProductMapping: in.ProductMapping,
		pipeline.RoleLoadingPlan:    in.LoadingPlan,
		pipeline.RoleSignoff:        in.Signoff,
	}
}

func TestHandlePreview(t *testing.T) {
	r := newTestRouter(t, ReportConfig{PreviewRows: 2})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/preview", sampleFiles(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		RunID          string                   `json:"run_id"`
		RowCount       int                      `json:"row_count"`
		Columns        []string                 `json:"columns"`
		Rows           []map[string]interface{} `json:"rows"`
		MissingActuals int                      `json:"missing_actuals"`
		Warnings       []map[string]interface{} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, resp.RunID, w.Header().Get("X-Run-ID"))
	assert.Equal(t, 6, resp.RowCount)
	assert.Len(t, resp.Rows, 2)
	assert.Equal(t, []string{"Date", "Schedule No", "Quantity", "Module_Upd", "Actuals"}, resp.Columns[:5])
	assert.Equal(t, "2024-09-19", resp.Rows[0]["Date"])
	assert.Equal(t, "Crew Neck Tee", resp.Rows[0]["Product"])
	assert.Equal(t, 1, resp.MissingActuals)
	assert.NotEmpty(t, resp.Warnings)
}

func TestHandlePreview_RowsQuery(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/preview?rows=abc", sampleFiles(t)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/preview?rows=10", sampleFiles(t)))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 6)
}

func TestHandlePreview_UnknownFileField(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for role, data := range sampleFiles(t) {
		fw, err := mw.CreateFormFile(string(role), string(role)+".xlsx")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	fw, err := mw.CreateFormFile("orderbook", "orders.xlsx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `Unexpected file field \"orderbook\"`)
	assert.Contains(t, w.Body.String(), "shopfloor, order_book, product_mapping, loading_plan, signoff")
}

func TestHandlePreview_MissingFiles(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})
	files := sampleFiles(t)
	delete(files, pipeline.RoleOrderBook)
	delete(files, pipeline.RoleSignoff)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/preview", files))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "please upload the following required files: Order Book, Signoff Data", resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}

func TestHandlePreview_NotMultipart(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reports/preview", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "please upload the following required files")
}

func TestHandlePreview_ValidationError(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})
	files := sampleFiles(t)
	files[pipeline.RoleOrderBook] = testhelpers.CSV(t,
		[]string{"Cust Style No", "Schedule No"},
		[]string{testhelpers.SampleStyle, "105"},
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/preview", files))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "order book")
}

func TestHandleExport(t *testing.T) {
	r := newTestRouter(t, ReportConfig{SheetName: "Report"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/export", sampleFiles(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, XLSXContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="uq_plan_vs_actuals.xlsx"`, w.Header().Get("Content-Disposition"))

	got, err := report.ReadXLSX(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 6, got.Len())
	assert.Equal(t, "Date", got.Columns()[0])
}

func TestHandleCrossTabExport(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/reports/crosstab/export", sampleFiles(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename="uq_plan_vs_actuals_crosstab.xlsx"`, w.Header().Get("Content-Disposition"))

	got, err := report.ReadXLSX(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Schedule No",
		"Quantity_2024-09-19", "Quantity_2024-09-20",
		"Actuals_2024-09-19", "Actuals_2024-09-20",
	}, got.Columns())
	assert.Equal(t, 2, got.Len())
}

func TestHandleHealth(t *testing.T) {
	r := newTestRouter(t, ReportConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/errors/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total_errors")
}
