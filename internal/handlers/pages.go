package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"cryptoupi/internal/humancheck"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded pages for gin's HTML renderer.
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

type PageHandler struct {
	Widget *humancheck.Widget
}

func NewPageHandler(widget *humancheck.Widget) *PageHandler {
	return &PageHandler{Widget: widget}
}

func (h *PageHandler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"SiteKey": h.Widget.SiteKey(),
		"DryRun":  h.Widget.DryRun(),
	})
}

func (h *PageHandler) Admin(c *gin.Context) {
	c.HTML(http.StatusOK, "admin.html", nil)
}
