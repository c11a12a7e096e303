package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/khanhvu/rescore/internal/dto"
	"github.com/khanhvu/rescore/internal/service"
	"github.com/rs/zerolog/log"
)

type ReviewController struct {
	reviewService      service.ReviewService
	leaderboardService service.LeaderboardService
}

func NewReviewController(reviewService service.ReviewService, leaderboardService service.LeaderboardService) *ReviewController {
	return &ReviewController{reviewService: reviewService, leaderboardService: leaderboardService}
}

// GetQuestionView godoc
// @Summary (User) Review a single question of an attempt
// @Description Returns the question as scored under the current answer key, with override and bonus effects broken out.
// @Tags User - Review
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param provider_question_id path string true "Provider question ID"
// @Success 200 {object} dto.QuestionViewDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Attempt ID format"
// @Failure 404 {object} dto.ErrorResponse "Response not found"
// @Router /attempts/{attempt_id}/questions/{provider_question_id} [get]
func (c *ReviewController) GetQuestionView(ctx *gin.Context) {
	attemptIDStr := ctx.Param("attempt_id")
	attemptID, err := strconv.ParseUint(attemptIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Attempt ID format"})
		return
	}
	questionID := ctx.Param("provider_question_id")

	view, err := c.reviewService.GetQuestionView(uint(attemptID), questionID)
	if err != nil {
		log.Warn().Err(err).Uint64("attemptID", attemptID).Str("questionID", questionID).
			Msg("User GetQuestionView: Response not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// GetAttemptSummary godoc
// @Summary (User) Get the reconciled summary of an attempt
// @Description Returns correct/incorrect/unattempted counts and the adjusted score under the current answer key, bonus flags and manual adjustments.
// @Tags User - Review
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Attempt ID format"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id}/summary [get]
func (c *ReviewController) GetAttemptSummary(ctx *gin.Context) {
	attemptIDStr := ctx.Param("attempt_id")
	attemptID, err := strconv.ParseUint(attemptIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Attempt ID format"})
		return
	}

	summary, err := c.reviewService.GetAttemptSummary(uint(attemptID))
	if err != nil {
		log.Warn().Err(err).Uint64("attemptID", attemptID).Msg("User GetAttemptSummary: Attempt not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetLeaderboard godoc
// @Summary (User) Get the reconciled leaderboard of a test
// @Description Ranks each account's best attempt by adjusted score. Pagination changes the window only, never the ranks.
// @Tags User - Leaderboard
// @Produce json
// @Param provider_test_id path string true "Provider test ID"
// @Param mode query string false "Ranking mode: all (default) or reattempts-only"
// @Param page query int false "Page number, 1-based"
// @Param page_size query int false "Entries per page (default 25, max 100)"
// @Param account_id query string false "Account whose global rank to include"
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tests/{provider_test_id}/leaderboard [get]
func (c *ReviewController) GetLeaderboard(ctx *gin.Context) {
	testID := ctx.Param("provider_test_id")
	mode := service.LeaderboardMode(ctx.DefaultQuery("mode", string(service.ModeAll)))

	page := 1
	if pageStr := ctx.Query("page"); pageStr != "" {
		val, err := strconv.Atoi(pageStr)
		if err != nil || val < 1 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid page parameter"})
			return
		}
		page = val
	}
	pageSize := 0
	if pageSizeStr := ctx.Query("page_size"); pageSizeStr != "" {
		val, err := strconv.Atoi(pageSizeStr)
		if err != nil || val < 1 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid page_size parameter"})
			return
		}
		pageSize = val
	}

	board, err := c.leaderboardService.GetLeaderboard(testID, mode, page, pageSize, ctx.Query("account_id"))
	if err != nil {
		log.Error().Err(err).Str("testID", testID).Msg("User GetLeaderboard: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to build leaderboard", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, board)
}
