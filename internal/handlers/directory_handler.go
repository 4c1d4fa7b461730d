package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cryptoupi/internal/services"
)

type DirectoryHandler struct {
	Service *services.DirectoryService
	logger  *zap.Logger
}

type entryRequest struct {
	Name string `json:"name" binding:"required"`
}

func NewDirectoryHandler(service *services.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryHandler{Service: service, logger: logger}
}

func (h *DirectoryHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("directory operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// @Summary      List directory entries
// @Tags         Admin directory
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page, 1-based"
// @Param        size  query     int  false  "Page size"
// @Success      200   {array}   models.DirectoryEntry
// @Router       /admin/directory [get]
func (h *DirectoryHandler) List(c *gin.Context) {
	limit, offset := pagination(c, 100, 500)
	entries, err := h.Service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary      Get a directory entry
// @Tags         Admin directory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  models.DirectoryEntry
// @Failure      404  {object}  map[string]string
// @Router       /admin/directory/{id} [get]
func (h *DirectoryHandler) Get(c *gin.Context) {
	e, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary      Add a directory entry
// @Tags         Admin directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        entry  body      entryRequest  true  "Name"
// @Success      201    {object}  models.DirectoryEntry
// @Failure      400    {object}  map[string]string
// @Router       /admin/directory [post]
func (h *DirectoryHandler) Create(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.Service.Add(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	subject, _ := getSubjectAndRole(c)
	h.logger.Info("directory entry added", zap.String("id", e.ID), zap.String("by", subject))
	c.JSON(http.StatusCreated, e)
}

// @Summary      Rename a directory entry
// @Tags         Admin directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string        true  "Entry id"
// @Param        entry  body      entryRequest  true  "New name"
// @Success      200    {object}  models.DirectoryEntry
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /admin/directory/{id} [put]
func (h *DirectoryHandler) Update(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.Service.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// @Summary      Delete a directory entry
// @Tags         Admin directory
// @Security     BearerAuth
// @Param        id   path  string  true  "Entry id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/directory/{id} [delete]
func (h *DirectoryHandler) Delete(c *gin.Context) {
	if err := h.Service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	subject, _ := getSubjectAndRole(c)
	h.logger.Info("directory entry removed", zap.String("id", c.Param("id")), zap.String("by", subject))
	c.Status(http.StatusNoContent)
}

// @Summary      Directory PDF export
// @Tags         Admin directory
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  file
// @Router       /admin/directory/report [get]
func (h *DirectoryHandler) Report(c *gin.Context) {
	body, err := h.Service.ExportPDF(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	filename := fmt.Sprintf("directory_%s.pdf", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", body)
}
