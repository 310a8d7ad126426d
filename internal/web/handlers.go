package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rf433-backend/internal/archive"
)

// param reads a request parameter from the form body, falling back to the
// query string so DELETE requests can carry their id in the URL.
func param(c *gin.Context, name string) string {
	if v := c.PostForm(name); v != "" {
		return v
	}
	return c.Query(name)
}

// boolParam parses a required boolean parameter.
func boolParam(c *gin.Context, name string) (bool, bool) {
	raw := param(c, name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// idParam parses the required signal id parameter.
func idParam(c *gin.Context) (uint64, bool) {
	raw := param(c, "id")
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func missingParam(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   name + " parameter required",
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.commands.Status())
}

func (s *Server) handleSniffing(c *gin.Context) {
	enabled, ok := boolParam(c, "enabled")
	if !ok {
		missingParam(c, "enabled")
		return
	}
	s.commands.SetSniffing(enabled)
	c.JSON(http.StatusOK, gin.H{"success": true, "sniffing": enabled})
}

func (s *Server) handleBuzzer(c *gin.Context) {
	enabled, ok := boolParam(c, "enabled")
	if !ok {
		missingParam(c, "enabled")
		return
	}
	s.commands.SetBuzzer(enabled)
	c.JSON(http.StatusOK, gin.H{"success": true, "buzzer": enabled})
}

func (s *Server) handleLed(c *gin.Context) {
	enabled, ok := boolParam(c, "enabled")
	if !ok {
		missingParam(c, "enabled")
		return
	}
	s.commands.SetLed(enabled)
	c.JSON(http.StatusOK, gin.H{"success": true, "led": enabled})
}

func (s *Server) handleList(c *gin.Context) {
	signals := s.commands.ListSignals()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"signals": signals,
		"count":   len(signals),
	})
}

func (s *Server) handleTransmit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		missingParam(c, "id")
		return
	}

	if err := s.commands.Transmit(id); err != nil {
		if errors.Is(err, archive.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signal id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "signal transmitted"})
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		missingParam(c, "id")
		return
	}

	if err := s.commands.DeleteSignal(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signal id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "signal deleted"})
}

func (s *Server) handleRename(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		missingParam(c, "id")
		return
	}
	name := param(c, "name")
	if name == "" {
		missingParam(c, "name")
		return
	}

	if err := s.commands.RenameSignal(id, name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signal id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "signal renamed"})
}

func (s *Server) handleFavorite(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		missingParam(c, "id")
		return
	}
	favorite, ok := boolParam(c, "favorite")
	if !ok {
		missingParam(c, "favorite")
		return
	}

	if err := s.commands.SetFavorite(id, favorite); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signal id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "favorite": favorite})
}

func (s *Server) handleClear(c *gin.Context) {
	s.commands.ClearAll()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "all signals cleared"})
}

func (s *Server) handleCleanup(c *gin.Context) {
	removed := s.commands.CleanupNow()
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}

func (s *Server) handlePurge(c *gin.Context) {
	days := 0
	if raw := param(c, "days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid days parameter"})
			return
		}
		days = v
	}

	removed := s.commands.PurgeOlderThan(days)
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}
