// Document extraction handler.
//
// POST /extractions runs the OCR + structuring pipeline over server-local
// document paths and upserts the extracted orders. Per-document failures
// (unreadable file) are collected, not fatal: the envelope reports
// partial_success and the surviving documents are still stored.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExtractRequest is the JSON payload for a pipeline run.
type ExtractRequest struct {
	Documents []string `json:"documents"`
}

// RunExtraction processes the given documents and persists any extracted
// order records.
func (h *Handlers) RunExtraction(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if len(req.Documents) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "documents list cannot be empty")
		return
	}

	report, err := h.extractSvc.ProcessDocuments(c.Request.Context(), req.Documents)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExtractionFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, report)
}
