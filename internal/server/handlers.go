package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vikas872/nyay-sathi-clean/internal/sanitize"
	"github.com/vikas872/nyay-sathi-clean/internal/stream"
)

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	question, reason := sanitize.ValidateQuery(req.Question)
	if reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	ans := s.orch.Ask(c.Request.Context(), question)
	c.JSON(http.StatusOK, ans)
}

// handleAskStream serves the progress sequence as server-sent events.
// The orchestrator keeps running if the client goes away; we just stop
// forwarding.
func (s *Server) handleAskStream(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	question, reason := sanitize.ValidateQuery(req.Question)
	if reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	em := stream.NewEmitter()
	go s.orch.AskStream(c.Request.Context(), question, em)

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-em.Events()
		if !ok {
			return false
		}
		c.SSEvent(string(ev.Type), ev)
		return true
	})
}
