package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/gocrawl/internal/database"
	"github.com/jonesrussell/gocrawl/internal/logger"
)

// LLMsTxtHandler implements GET/PUT /sites/{id}/llms-txt and the
// supplemental GET .../history endpoint recovered from original_source's
// routers/generate.py (SPEC_FULL.md §6).
type LLMsTxtHandler struct {
	sites SiteStore
	files GeneratedFileStore
	log   logger.Interface
}

// NewLLMsTxtHandler creates an LLMsTxtHandler.
func NewLLMsTxtHandler(sites SiteStore, files GeneratedFileStore, log logger.Interface) *LLMsTxtHandler {
	return &LLMsTxtHandler{sites: sites, files: files, log: log}
}

// Get handles GET /sites/{id}/llms-txt: returns the current generated
// document for a site.
func (h *LLMsTxtHandler) Get(c *gin.Context) {
	siteID := c.Param("id")

	gf, err := h.files.Latest(c.Request.Context(), siteID)
	if err != nil {
		if errors.Is(err, database.ErrGeneratedFileNotFound) {
			respondNotFound(c, "generated document")
			return
		}
		respondInternalError(c, "failed to look up generated document")
		return
	}

	c.JSON(http.StatusOK, gf)
}

// UpdateLLMsTxtRequest is the PUT /sites/{id}/llms-txt request body.
type UpdateLLMsTxtRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update handles PUT /sites/{id}/llms-txt: persists a hand-edited document
// in place over the site's current GeneratedFile row, marking it edited.
// Per SPEC_FULL.md §6, this does not append a new version.
func (h *LLMsTxtHandler) Update(c *gin.Context) {
	siteID := c.Param("id")

	var req UpdateLLMsTxtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	gf, err := h.files.Latest(ctx, siteID)
	if err != nil {
		if errors.Is(err, database.ErrGeneratedFileNotFound) {
			respondNotFound(c, "generated document")
			return
		}
		respondInternalError(c, "failed to look up generated document")
		return
	}

	hash := documentHash(req.Content)
	if updateErr := h.files.UpdateContent(ctx, gf.ID, req.Content, hash); updateErr != nil {
		respondInternalError(c, "failed to update generated document")
		return
	}

	gf.Content = req.Content
	gf.ContentHash = hash
	gf.IsEdited = true
	c.JSON(http.StatusOK, gf)
}

// History handles GET /sites/{id}/llms-txt/history: lists prior generated
// document versions, newest first.
func (h *LLMsTxtHandler) History(c *gin.Context) {
	siteID := c.Param("id")

	files, err := h.files.History(c.Request.Context(), siteID)
	if err != nil {
		respondInternalError(c, "failed to list document history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": files})
}

func documentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
