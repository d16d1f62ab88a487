package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coolbeans/lexcite/pkg/citation"
	"github.com/coolbeans/lexcite/pkg/engine"
	"github.com/coolbeans/lexcite/pkg/format"
)

// Handler handles HTTP requests for the citation engine
type Handler struct {
	engine *engine.Engine
}

// NewHandler creates a new citation handler
func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

// ExtractRequest represents the request body for extraction
type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// FormatRequest represents the request body for formatting one citation
type FormatRequest struct {
	Kind       citation.Kind   `json:"kind"`
	Components json.RawMessage `json:"components" binding:"required"`
	Style      *format.Style   `json:"style"`
}

// ResolveRequest represents the request body for short-form resolution
type ResolveRequest struct {
	Citations []*citation.Citation `json:"citations" binding:"required"`
}

// AuthoritiesRequest represents the request body for a table of authorities
type AuthoritiesRequest struct {
	Text  string        `json:"text" binding:"required"`
	Style *format.Style `json:"style"`
}

// ProcessRequest represents the request body for full document processing
type ProcessRequest struct {
	Text  string               `json:"text" binding:"required"`
	Style *format.Style        `json:"style"`
	Hints []*citation.Citation `json:"existing_citations_hint"`
}

// ExtractCitations handles POST /v1/citations/extract
func (h *Handler) ExtractCitations(c *gin.Context) {
	var req ExtractRequest
	if !bind(c, &req) {
		return
	}

	respond(c, gin.H{
		"citations": h.engine.ExtractCitations(req.Text),
	})
}

// FormatCitation handles POST /v1/citations/format
func (h *Handler) FormatCitation(c *gin.Context) {
	var req FormatRequest
	if !bind(c, &req) {
		return
	}

	components, err := citation.DecodeComponents(req.Kind, req.Components)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_COMPONENTS", err.Error())
		return
	}

	style := h.engine.Style()
	if req.Style != nil {
		style = *req.Style
	}

	respond(c, gin.H{
		"kind":      components.Kind(),
		"style":     style,
		"citation":  h.engine.FormatCitation(components, style),
		"authority": citation.AuthorityKey(components),
	})
}

// ResolveShortForms handles POST /v1/citations/resolve
func (h *Handler) ResolveShortForms(c *gin.Context) {
	var req ResolveRequest
	if !bind(c, &req) {
		return
	}
	for i, cit := range req.Citations {
		if cit == nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("citations[%d] is null", i))
			return
		}
	}

	respond(c, gin.H{
		"citations": h.engine.ResolveShortForms(req.Citations),
	})
}

// BuildTableOfAuthorities handles POST /v1/authorities
func (h *Handler) BuildTableOfAuthorities(c *gin.Context) {
	var req AuthoritiesRequest
	if !bind(c, &req) {
		return
	}

	result := h.engine.Process(engine.Document{Text: req.Text, Style: req.Style})
	respond(c, gin.H{
		"table_of_authorities": result.Table,
		"text":                 result.Table.Text(),
	})
}

// ProcessDocument handles POST /v1/documents/process
func (h *Handler) ProcessDocument(c *gin.Context) {
	var req ProcessRequest
	if !bind(c, &req) {
		return
	}

	respond(c, h.engine.Process(engine.Document{
		Text:  req.Text,
		Style: req.Style,
		Hints: req.Hints,
	}))
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
