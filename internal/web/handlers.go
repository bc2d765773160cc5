package web

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kapu/isv-directory/internal/domain"
	"go.uber.org/zap"
)

// cardsReply is the payload of /api/cards and of every /ws message: the view
// plus its cards already rendered as an HTML fragment.
type cardsReply struct {
	View domain.DirectoryView `json:"view"`
	HTML string               `json:"html"`
}

func (s *Server) handleIndex(c *gin.Context) {
	view := s.directory.View(c.Query("q"))
	status := http.StatusOK
	if view.Error != nil {
		status = http.StatusServiceUnavailable
	}

	c.HTML(status, "index", gin.H{
		"Title": pageTitle,
		"View":  view,
		"Live":  s.directory.Ready(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	if !s.directory.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAPICards(c *gin.Context) {
	reply, err := s.reply(c.Query("q"))
	if err != nil {
		s.logger.Error("Failed to render cards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	status := http.StatusOK
	if reply.View.Error != nil {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, reply)
}

func (s *Server) reply(query string) (cardsReply, error) {
	view := s.directory.View(query)

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "cards", view); err != nil {
		return cardsReply{}, err
	}
	return cardsReply{View: view, HTML: buf.String()}, nil
}
