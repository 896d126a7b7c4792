package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListTranscriptions(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	records, err := s.transcriptionSvc.List(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcriptions": records})
}

func (s *Server) ListBin(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	records, err := s.transcriptionSvc.ListBin(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcriptions": records})
}

func (s *Server) DeleteTranscription(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	if err := s.transcriptionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) RestoreTranscription(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	if err := s.transcriptionSvc.Restore(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

func (s *Server) PurgeTranscription(c *gin.Context) {
	id, ok := parseRecordID(c)
	if !ok {
		return
	}
	if err := s.transcriptionSvc.Purge(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "purged"})
}

func parseRecordID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}
