package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": viewSummaries(s.service)})
}

// handleGetView activates a view and returns the rows picked by ?selector=
func (s *Server) handleGetView(c *gin.Context) {
	result, err := s.service.Query(c.Request.Context(), c.Param("name"), c.Query("selector"))
	if err != nil {
		c.JSON(httpStatus(err), newErrorBody(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRefreshView(c *gin.Context) {
	result, err := s.service.Refresh(c.Request.Context(), c.Param("name"), c.Query("selector"))
	if err != nil {
		c.JSON(httpStatus(err), newErrorBody(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "views": s.service.Status()})
}
