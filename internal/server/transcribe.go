package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	transcriptiondomain "github.com/katapod/transcribe/internal/transcription/domain"
)

func (s *Server) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var fileData transcriptiondomain.FileData
	if raw := c.PostForm("fileData"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fileData); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	text, err := s.transcriptionSvc.Transcribe(c.Request.Context(), transcriptiondomain.TranscribeRequest{
		FileName: fileHeader.Filename,
		Data:     data,
		FileData: fileData,
		Model:    c.PostForm("model"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}
