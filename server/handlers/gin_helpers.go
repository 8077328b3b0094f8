package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"planact/server/middleware"
)

// XLSXContentType is the MIME type of downloaded workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SendJSONResponse writes data as JSON.
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendJSONError maps err to a status and writes the JSON error body.
func SendJSONError(c *gin.Context, err error) {
	middleware.GinHandleError(c, err)
}

// SendAttachment writes buf as a file download named fileName.
func SendAttachment(c *gin.Context, fileName, contentType string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Length", fmt.Sprint(buf.Len()))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
