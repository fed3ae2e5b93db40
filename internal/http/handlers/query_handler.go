package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/reputation-ledger/internal/dto"
	"github.com/ignatzorin/reputation-ledger/internal/http/handlers/common"
	"github.com/ignatzorin/reputation-ledger/internal/service"
	"github.com/ignatzorin/reputation-ledger/internal/validation"
)

// QueryHandler отдаёт read-only представления журнала и репутации.
type QueryHandler struct {
	queries *service.QueryService
}

func NewQueryHandler(queries *service.QueryService) *QueryHandler {
	return &QueryHandler{queries: queries}
}

// ListReviews GET /api/reviews
func (h *QueryHandler) ListReviews(c *gin.Context) {
	filter := service.ListReviewsFilter{
		StartAfter:      c.Query("start_after"),
		Limit:           common.ParseIntQuery(c, "limit", 0),
		IncludeDisputed: common.ParseBoolQuery(c, "include_disputed", false),
	}

	if v := c.Query("min_rating"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil {
			common.RespondBadRequest(c, "неверный min_rating")
			return
		}
		filter.MinRating = &min
	}
	if v := c.Query("max_rating"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			common.RespondBadRequest(c, "неверный max_rating")
			return
		}
		filter.MaxRating = &max
	}

	reviews, err := h.queries.ListReviews(c.Request.Context(), filter)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewReviewListResponse(reviews))
}

// GetUserReputation GET /api/users/:address/reputation
//
// Окно start_time/end_time задаётся unix-секундами; счётчики в ответе
// пересчитываются по окну на каждый запрос и не сохраняются.
func (h *QueryHandler) GetUserReputation(c *gin.Context) {
	address := c.Param("address")
	if err := validation.ValidateAddress(address); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var window service.TimeWindow
	if v := c.Query("start_time"); v != "" {
		ts, err := parseUnixSeconds(v)
		if err != nil {
			common.RespondBadRequest(c, "неверный start_time")
			return
		}
		window.Start = &ts
	}
	if v := c.Query("end_time"); v != "" {
		ts, err := parseUnixSeconds(v)
		if err != nil {
			common.RespondBadRequest(c, "неверный end_time")
			return
		}
		window.End = &ts
	}

	rep, err := h.queries.GetUserReputation(c.Request.Context(), address, window)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

// GetStats GET /api/stats
func (h *QueryHandler) GetStats(c *gin.Context) {
	stats, err := h.queries.GetStats(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseUnixSeconds(v string) (time.Time, error) {
	seconds, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(seconds, 0).UTC(), nil
}
