package leaderboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/blockdrop/internal/replay"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

// ErrRulesMismatch is reported for replays recorded under rules other than
// the server's.
var ErrRulesMismatch = errors.New("replay rules differ from the leaderboard rules")

// ScoreResponse is one leaderboard row.
type ScoreResponse struct {
	Rank      int       `json:"rank"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	ReplayID  int64     `json:"replay_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitResponse is returned for an accepted replay.
type SubmitResponse struct {
	ReplayID int64  `json:"replay_id"`
	Score    int    `json:"score"`
	Frames   int    `json:"frames"`
	Status   string `json:"status"`
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// submitReplay verifies an uploaded replay and stores it when the claimed
// score matches the recomputed one.
func (s *Server) submitReplay(c *gin.Context) {
	if s.config.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes)
	}

	var d replay.Data
	if err := c.ShouldBindJSON(&d); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid replay: "+err.Error())
		return
	}
	if s.config.MaxFrames > 0 && d.Frames > s.config.MaxFrames {
		errorResponse(c, http.StatusBadRequest, "replay too long")
		return
	}
	if err := d.Validate(); err != nil {
		s.handleReplayError(c, err)
		return
	}
	if d.Rules.Normalize() != s.config.Rules {
		s.logger.Warn("replay rejected", "player", d.PlayerName, "error", ErrRulesMismatch)
		errorResponse(c, http.StatusUnprocessableEntity, ErrRulesMismatch.Error())
		return
	}

	start := time.Now()
	state, err := replay.Verify(d)
	if err != nil {
		s.logger.Warn("replay rejected",
			"player", d.PlayerName,
			"claimed", d.FinalScore,
			"recomputed", state.Score,
			"error", err,
		)
		s.handleReplayError(c, err)
		return
	}

	id, err := s.store.SaveReplay(d, true)
	if err != nil {
		s.logger.Error("cannot store replay", "error", err)
		errorResponse(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	s.logger.Info("replay verified",
		"id", id,
		"player", d.PlayerName,
		"score", state.Score,
		"frames", d.Frames,
		"took", time.Since(start),
	)
	c.JSON(http.StatusCreated, SubmitResponse{
		ReplayID: id,
		Score:    state.Score,
		Frames:   d.Frames,
		Status:   string(state.Status),
	})
}

// handleReplayError maps replay errors onto status codes.
func (s *Server) handleReplayError(c *gin.Context, err error) {
	if errors.Is(err, replay.ErrScoreMismatch) {
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// Unsupported versions and malformed logs are client errors too.
	errorResponse(c, http.StatusBadRequest, err.Error())
}

func (s *Server) getReplay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorResponse(c, http.StatusBadRequest, "invalid replay id")
		return
	}

	r, err := s.store.Replay(id)
	if errors.Is(err, storage.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "replay not found")
		return
	}
	if err != nil {
		s.logger.Error("cannot load replay", "id", id, "error", err)
		errorResponse(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	c.JSON(http.StatusOK, r.Data)
}

func (s *Server) topScores(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			errorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	entries, err := s.store.TopScores(limit, true)
	if err != nil {
		s.logger.Error("cannot load scores", "error", err)
		errorResponse(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	out := make([]ScoreResponse, len(entries))
	for i, e := range entries {
		out[i] = ScoreResponse{
			Rank:      i + 1,
			Player:    e.Player,
			Score:     e.Score,
			ReplayID:  e.ReplayID,
			CreatedAt: e.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}
