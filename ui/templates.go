package ui

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a page template into a buffer so a failing
// template never produces a half-written response
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("[Template] rendering %s failed: %v (data %T)", templateName, err, data)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed"})
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		s.logger.Warn("[Template] %s rendered without a closing </html> tag (%d bytes)", templateName, buf.Len())
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("[Template] writing %s response failed: %v", templateName, err)
	}
}
