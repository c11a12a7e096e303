package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khanhvu/rescore/internal/dto"
	"github.com/khanhvu/rescore/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	overlayService service.OverlayService
	syncService    service.SyncService
}

func NewAdminController(overlayService service.OverlayService, syncService service.SyncService) *AdminController {
	return &AdminController{overlayService: overlayService, syncService: syncService}
}

// SetAnswerKeyOverride godoc
// @Summary (Admin) Override the answer key of a question
// @Description Records a corrected answer for a question and recomputes the derived score of every response to it. Submitting an answer equal to the original clears the override.
// @Tags Admin - Corrections
// @Accept json
// @Produce json
// @Param provider_question_id path string true "Provider question ID"
// @Param override body dto.AnswerKeyOverrideDTO true "Corrected answer with the original it replaces"
// @Success 200 {object} dto.OverrideResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "No synced response references this question"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{provider_question_id}/answer-key [put]
func (c *AdminController) SetAnswerKeyOverride(ctx *gin.Context) {
	questionID := ctx.Param("provider_question_id")

	var req dto.AnswerKeyOverrideDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin SetAnswerKeyOverride: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.overlayService.SetAnswerKeyOverride(questionID, req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionUnknown) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Str("questionID", questionID).Msg("Admin SetAnswerKeyOverride: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to apply answer key override", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ToggleBonus godoc
// @Summary (Admin) Set or clear the bonus flag of a question
// @Description Marks a question as bonus (answered responses receive flat bonus credit) or clears the flag, recomputing derived scores either way.
// @Tags Admin - Corrections
// @Accept json
// @Produce json
// @Param provider_question_id path string true "Provider question ID"
// @Param bonus body dto.BonusToggleDTO true "Actor and reason for the toggle"
// @Success 200 {object} dto.BonusResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "No synced response references this question"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{provider_question_id}/bonus [put]
func (c *AdminController) ToggleBonus(ctx *gin.Context) {
	questionID := ctx.Param("provider_question_id")

	var req dto.BonusToggleDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin ToggleBonus: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.overlayService.ToggleBonus(questionID, req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionUnknown) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Str("questionID", questionID).Msg("Admin ToggleBonus: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to toggle bonus flag", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// SetScoreAdjustment godoc
// @Summary (Admin) Set a manual score adjustment for an account on a test
// @Description Records a flat delta applied on top of the reconciled score of the account's attempts on this test. A later call replaces the earlier delta.
// @Tags Admin - Corrections
// @Accept json
// @Produce json
// @Param provider_test_id path string true "Provider test ID"
// @Param account_id path string true "Provider account ID"
// @Param adjustment body dto.ScoreAdjustmentDTO true "Score delta with reason"
// @Success 200 {object} dto.ScoreAdjustmentResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests/{provider_test_id}/accounts/{account_id}/adjustment [put]
func (c *AdminController) SetScoreAdjustment(ctx *gin.Context) {
	testID := ctx.Param("provider_test_id")
	accountID := ctx.Param("account_id")

	var req dto.ScoreAdjustmentDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin SetScoreAdjustment: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.overlayService.SetScoreAdjustment(testID, accountID, req)
	if err != nil {
		log.Error().Err(err).Str("testID", testID).Str("accountID", accountID).Msg("Admin SetScoreAdjustment: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to set score adjustment", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// RunSync godoc
// @Summary (Admin) Run a provider sync
// @Description Pulls the provider catalog and ingests every new attempt through the bounded worker pool. Already known attempts are skipped, so re-running is safe.
// @Tags Admin - Sync
// @Accept json
// @Produce json
// @Param sync_request body dto.SyncRequestDTO true "Account triggering the sync"
// @Success 200 {object} dto.SyncReportDTO "Per-package failures are reported inline; they do not fail the run"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Provider catalog unavailable"
// @Router /admin/sync [post]
func (c *AdminController) RunSync(ctx *gin.Context) {
	var req dto.SyncRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin RunSync: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	report, err := c.syncService.RunSync(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Admin RunSync: Sync run failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Sync run failed", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, report)
}
