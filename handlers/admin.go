package handlers

import (
	"net/http"

	"islandeats/services/directory"
	"islandeats/services/inquiry"
	"islandeats/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes read-only engine state and the directory refresh
// hook for operators.
type AdminHandler struct {
	Registry  inquiry.Registry
	Directory directory.Service
}

func NewAdminHandler(reg inquiry.Registry, dir directory.Service) *AdminHandler {
	return &AdminHandler{Registry: reg, Directory: dir}
}

// ListInquiries returns every inquiry the registry holds, newest first.
func (h *AdminHandler) ListInquiries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"inquiries": h.Registry.All()})
}

// GetInquiry returns one inquiry by ID.
func (h *AdminHandler) GetInquiry(c *gin.Context) {
	id := c.Param("id")
	inq, ok := h.Registry.Get(id)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "inquiry not found", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry": inq})
}

// RefreshDirectory reloads the provider directory from its source.
func (h *AdminHandler) RefreshDirectory(c *gin.Context) {
	if err := h.Directory.Refresh(c.Request.Context()); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "directory refresh failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}
