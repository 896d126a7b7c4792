package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/katapod/transcribe/internal/billing/domain"
)

func (s *Server) Checkout(c *gin.Context) {
	var req billingdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.billingSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.CheckoutSessions.Inc()
	c.JSON(http.StatusOK, resp)
}

type portalRequest struct {
	UserID string `json:"supabaseId"`
	Email  string `json:"email"`
}

func (s *Server) Portal(c *gin.Context) {
	var req portalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	url, err := s.billingSvc.Portal(c.Request.Context(), req.UserID, req.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

type upcomingInvoiceRequest struct {
	UserID string `json:"supabaseId"`
}

func (s *Server) UpcomingInvoice(c *gin.Context) {
	var req upcomingInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invoice, err := s.billingSvc.UpcomingInvoice(c.Request.Context(), req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", invoice)
}
