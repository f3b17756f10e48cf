// Purchase order document handlers.
//
// Endpoints:
//   - POST /documents/po       (generate a PO document, optionally email it)
//   - POST /documents/inbound  (pull supplier documents from the mailbox)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/go-procure-backend/internal/docgen"
	"github.com/iabhiroop/go-procure-backend/internal/http/middleware"
	"github.com/iabhiroop/go-procure-backend/internal/mail"
	"github.com/iabhiroop/go-procure-backend/internal/services"
	"github.com/iabhiroop/go-procure-backend/internal/utils"
)

// GeneratePORequest is the JSON payload for purchase order generation.
// When EmailTo is set and outbound mail is configured, the rendered
// document is sent to the supplier as an attachment.
type GeneratePORequest struct {
	docgen.Request
	EmailTo string `json:"email_to,omitempty"`
	Urgent  bool   `json:"urgent,omitempty"`
}

// GeneratePOResponse reports the generated document and optional delivery.
type GeneratePOResponse struct {
	Status        string  `json:"status"`
	PONumber      string  `json:"po_number"`
	Path          string  `json:"path"`
	ItemsCount    int     `json:"items_count"`
	Total         float64 `json:"total"`
	EmailedTo     string  `json:"emailed_to,omitempty"`
	MailMessageID string  `json:"mail_message_id,omitempty"`
}

// InboundResponse lists supplier documents pulled from the mailbox.
type InboundResponse struct {
	Status    string                 `json:"status"`
	Documents []mail.InboundDocument `json:"documents"`
	Count     int                    `json:"count"`
}

// GeneratePO validates the payload, renders the purchase order document,
// and optionally emails it to the supplier. Validation failures name the
// offending field and write nothing.
func (h *Handlers) GeneratePO(c *gin.Context) {
	var req GeneratePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.generator.Generate(&req.Request)
	if err != nil {
		if services.IsValidation(err) {
			fail(c, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDocumentFailed, err.Error())
		return
	}

	resp := GeneratePOResponse{
		Status:     StatusSuccess,
		PONumber:   res.PONumber,
		Path:       res.Path,
		ItemsCount: res.ItemsCount,
		Total:      res.Total,
	}

	if req.EmailTo != "" {
		if h.sender == nil {
			fail(c, http.StatusServiceUnavailable, ErrCodeMailDisabled, "outbound mail is not configured")
			return
		}
		msgID, err := h.sender.Send(c.Request.Context(), mail.OutboundMessage{
			To:             req.EmailTo,
			Subject:        fmt.Sprintf("Purchase Order %s", res.PONumber),
			Body:           fmt.Sprintf("Please find attached purchase order %s.", res.PONumber),
			AttachmentPath: res.Path,
			Urgent:         req.Urgent,
		})
		if err != nil {
			// Document is already on disk; report the partial outcome.
			lg := middleware.LoggerFrom(c)
			lg.Warn().Err(err).Str("po_number", res.PONumber).Msg("po mail delivery failed")
			resp.Status = StatusPartialSuccess
			ok(c, http.StatusOK, resp)
			return
		}
		resp.EmailedTo = req.EmailTo
		resp.MailMessageID = msgID
	}

	ok(c, http.StatusCreated, resp)
}

// FetchInboundDocuments pulls unread supplier mail with attachments and
// saves the documents for the extraction pipeline.
func (h *Handlers) FetchInboundDocuments(c *gin.Context) {
	if h.fetcher == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeMailDisabled, "inbound mail is not configured")
		return
	}

	max := int64(utils.AtoiDefault(c.Query("max"), 10))
	docs, err := h.fetcher.FetchDocuments(c.Request.Context(), max)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMailFailed, err.Error())
		return
	}
	if docs == nil {
		docs = []mail.InboundDocument{}
	}
	ok(c, http.StatusOK, InboundResponse{
		Status:    StatusSuccess,
		Documents: docs,
		Count:     len(docs),
	})
}
