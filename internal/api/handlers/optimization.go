package handlers

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/optimizer"
	"github.com/stitts-dev/lineup-optimizer/internal/types"
	"github.com/stitts-dev/lineup-optimizer/pkg/cache"
	"github.com/stitts-dev/lineup-optimizer/pkg/config"
	"github.com/stitts-dev/lineup-optimizer/pkg/logger"
)

// OptimizationHandler handles the lineup optimization endpoint
type OptimizationHandler struct {
	optimizer *optimizer.Optimizer
	cache     *cache.LineupCacheService
	config    *config.Config
	logger    *logrus.Logger
}

// NewOptimizationHandler creates a new optimization handler
func NewOptimizationHandler(
	opt *optimizer.Optimizer,
	cache *cache.LineupCacheService,
	config *config.Config,
	logger *logrus.Logger,
) *OptimizationHandler {
	return &OptimizationHandler{
		optimizer: opt,
		cache:     cache,
		config:    config,
		logger:    logger,
	}
}

// OptimizeLineup handles lineup optimization requests
func (h *OptimizationHandler) OptimizeLineup(c *gin.Context) {
	requestID := uuid.New().String()
	log := logger.WithRequestID(h.logger, requestID)

	var req types.RosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	cacheKey := h.generateCacheKey(&req)
	if cached, err := h.cache.GetLineups(c.Request.Context(), cacheKey); err == nil && cached != nil {
		log.WithField("cache_key", cacheKey).Info("Returning cached lineup result")
		c.JSON(http.StatusOK, cached)
		return
	}

	result, err := h.optimizer.Optimize(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, log, &req, err)
		return
	}

	ttl := time.Duration(h.config.CacheTTLHours) * time.Hour
	if err := h.cache.SetLineups(c.Request.Context(), cacheKey, result.Lineups, ttl); err != nil {
		log.WithError(err).Warn("Failed to cache lineup result")
	}

	log.WithFields(logrus.Fields{
		"players":        len(result.Lineups),
		"elapsed":        result.Elapsed,
		"proven_optimal": result.ProvenOptimal,
	}).Info("Optimization completed")

	if !result.ProvenOptimal {
		c.Header("X-Solver-Status", "best_found")
	}
	c.JSON(http.StatusOK, result.Lineups)
}

// respondError maps the optimizer's error taxonomy onto transport statuses:
// validation and domain infeasibility are client faults, anything
// unclassified is a server fault with detail logged but not returned.
func (h *OptimizationHandler) respondError(c *gin.Context, log *logrus.Entry, req *types.RosterRequest, err error) {
	var (
		validationErr *optimizer.ValidationError
		infeasibleErr *optimizer.InfeasibleError
		timeoutErr    *optimizer.TimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		log.WithError(err).Warn("Request failed validation")
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:         validationErr.Error(),
			Code:          "VALIDATION_ERROR",
			InputReceived: req,
		})
	case errors.As(err, &infeasibleErr):
		log.WithError(err).Warn("Model infeasible")
		c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
			Error:         infeasibleErr.Error(),
			Code:          "INFEASIBLE",
			InputReceived: req,
		})
	case errors.As(err, &timeoutErr):
		log.WithError(err).Warn("Solver budget exhausted without incumbent")
		c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
			Error:         timeoutErr.Error(),
			Code:          "SOLVER_TIMEOUT",
			InputReceived: req,
		})
	default:
		log.WithError(err).Error("Optimization failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: "Optimization failed",
			Code:  "OPTIMIZATION_ERROR",
		})
	}
}

// generateCacheKey hashes the canonical request so identical rosters reuse a
// solved lineup.
func (h *OptimizationHandler) generateCacheKey(req *types.RosterRequest) string {
	data, _ := json.Marshal(req)
	return fmt.Sprintf("%x", md5.Sum(data))
}
