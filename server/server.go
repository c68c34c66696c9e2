// Package server exposes the decision engine over HTTP and a websocket.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/brensch/snekstep/engine"
	"github.com/brensch/snekstep/game"
)

// StepRequest carries the flat multi-snake arguments. Round is the number of
// rounds remaining in the game.
type StepRequest struct {
	Size     int   `json:"size" binding:"gt=0,lte=64"` // engine.MaxBoardSize
	Snake    []int `json:"snake" binding:"len=8"`
	SnakeNum int   `json:"snake_num" binding:"gte=0"`
	Snakes   []int `json:"snakes"`
	FoodNum  int   `json:"food_num" binding:"gte=0"`
	Foods    []int `json:"foods"`
	Round    int   `json:"round"`
}

// BarriersRequest carries the flat obstacle-aware arguments.
type BarriersRequest struct {
	Snake    []int `json:"snake" binding:"len=8"`
	Foods    []int `json:"foods"`
	Barriers []int `json:"barriers"`
}

// MoveResponse is the answer to either request. Move is 0..3, or -1 from the
// barriers endpoint when the food cannot be reached.
type MoveResponse struct {
	Move int    `json:"move"`
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}

// InfoResponse describes the service.
type InfoResponse struct {
	APIVersion string        `json:"apiversion"`
	Author     string        `json:"author"`
	Version    string        `json:"version"`
	Config     engine.Config `json:"config"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server holds the engine shared by every request.
type Server struct {
	eng      *engine.Engine
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func New(eng *engine.Engine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		eng: eng,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler builds the routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.handleIndex)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := r.Group("/v1")
	v1.POST("/step", s.handleStep)
	v1.POST("/barriers", s.handleBarriers)
	v1.GET("/stream", s.handleStream)
	return r
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		APIVersion: "1",
		Author:     "snekstep",
		Version:    "1.0.0",
		Config:     s.eng.Config(),
	})
}

func (s *Server) handleStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.step(req))
}

func (s *Server) handleBarriers(c *gin.Context) {
	var req BarriersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	move := s.eng.DecideBarriers(req.Snake, req.Foods, req.Barriers)
	c.JSON(http.StatusOK, MoveResponse{Move: move, Name: game.Direction(move).String()})
}

func (s *Server) step(req StepRequest) MoveResponse {
	b := engine.FlatBoard(req.Size, req.Snake, req.SnakeNum, req.Snakes, req.FoodNum, req.Foods, req.Round)
	d := s.eng.Step(b)
	return MoveResponse{Move: int(d.Move), Name: d.Move.String(), Tier: d.Tier.String()}
}

// handleStream answers one StepRequest per text frame until the client
// goes away.
func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}
	defer conn.Close()

	served := 0
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read failed", slog.Any("err", err))
			}
			break
		}
		if kind != websocket.TextMessage {
			continue
		}

		var resp any
		var req StepRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			resp = errorResponse{Error: err.Error()}
		} else if err := validateStep(req); err != nil {
			resp = errorResponse{Error: err.Error()}
		} else {
			resp = s.step(req)
			served++
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Debug("websocket write failed", slog.Any("err", err))
			break
		}
	}
	s.log.Info("stream closed", slog.String("remote", c.ClientIP()), slog.Int("served", served))
}

// validateStep applies the same rules as the JSON binding tags.
func validateStep(req StepRequest) error {
	switch {
	case req.Size <= 0 || req.Size > engine.MaxBoardSize:
		return fmt.Errorf("size must be in 1..%d", engine.MaxBoardSize)
	case len(req.Snake) != 2*game.MaxSegments:
		return errors.New("snake must have 8 values")
	case req.SnakeNum < 0 || req.FoodNum < 0:
		return errors.New("counts must not be negative")
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		lvl := slog.LevelDebug
		if c.Writer.Status() >= http.StatusBadRequest {
			lvl = slog.LevelWarn
		}
		s.log.Log(c.Request.Context(), lvl, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
