package web

import (
	"github.com/gin-gonic/gin"

	"rf433-backend/internal/models"
)

// Commands is the slice of the command surface the handlers need. The
// concrete implementation is services.CommandService; tests substitute a
// mock.
type Commands interface {
	Status() models.Status
	SetSniffing(enabled bool)
	SetBuzzer(enabled bool)
	SetLed(enabled bool)
	ListSignals() []models.SignalView
	Transmit(id uint64) error
	DeleteSignal(id uint64) error
	RenameSignal(id uint64, name string) error
	SetFavorite(id uint64, favorite bool) error
	ClearAll()
	CleanupNow() int
	PurgeOlderThan(days int) int
}

// Server is the HTTP command surface.
type Server struct {
	commands Commands
	router   *gin.Engine
}

// NewServer creates the API server with the device's route table.
func NewServer(commands Commands) *Server {
	router := gin.Default()

	s := &Server{
		commands: commands,
		router:   router,
	}

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.POST("/sniffing", s.handleSniffing)
		api.POST("/buzzer", s.handleBuzzer)
		api.POST("/led", s.handleLed)
		api.GET("/signals", s.handleList)
		api.DELETE("/signals", s.handleDelete)
		api.POST("/transmit", s.handleTransmit)
		api.POST("/signals/rename", s.handleRename)
		api.POST("/signals/favorite", s.handleFavorite)
		api.POST("/clear", s.handleClear)
		api.POST("/cleanup", s.handleCleanup)
		api.POST("/cleanup/old", s.handlePurge)
	}

	return s
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
