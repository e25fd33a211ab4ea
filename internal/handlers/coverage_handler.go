package handlers

import (
	"net/http"

	"quoting-service/internal/models"
	"quoting-service/internal/services"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

type CoverageHandler struct {
	wizardService   *services.WizardService
	quoteService    *services.QuoteService
	coverageService *services.CoverageService
}

func NewCoverageHandler(wizardService *services.WizardService, quoteService *services.QuoteService, coverageService *services.CoverageService) *CoverageHandler {
	return &CoverageHandler{
		wizardService:   wizardService,
		quoteService:    quoteService,
		coverageService: coverageService,
	}
}

func (h *CoverageHandler) Register(app *fiber.App) {
	gr := app.Group("simulator/api/v1/sessions")
	gr.Post("/:id/quote", h.Quote)
	gr.Get("/:id/coverages", h.ListCoverages)
	gr.Post("/:id/coverages/:covID/toggle", h.Toggle)
	gr.Post("/:id/coverages/:covID/capital", h.AdjustCapital)
}

func (h *CoverageHandler) Quote(c fiber.Ctx) error {
	sessionID := c.Params("id")

	var req models.QuoteRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
		}
	}

	session, err := h.wizardService.GetSession(c.Context(), sessionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if _, err := h.quoteService.Refresh(c.Context(), session, req.Force); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(h.listResponse(sessionID)))
}

func (h *CoverageHandler) ListCoverages(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(h.listResponse(c.Params("id"))))
}

func (h *CoverageHandler) Toggle(c fiber.Ctx) error {
	if err := h.coverageService.Toggle(c.Params("id"), c.Params("covID")); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(h.listResponse(c.Params("id"))))
}

// AdjustCapital clamps the requested capital to the coverage's allowed range
// before storing; the store itself accepts any value.
func (h *CoverageHandler) AdjustCapital(c fiber.Ctx) error {
	sessionID := c.Params("id")
	coverageID := c.Params("covID")

	var req models.AdjustCapitalRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_CAPITAL", err.Error()))
	}

	var target *models.Coverage
	for _, cov := range h.coverageService.Coverages(sessionID) {
		if cov.ID == coverageID {
			target = &cov
			break
		}
	}
	if target == nil {
		return respondServiceError(c, services.ErrCoverageNotFound)
	}

	capital := req.Capital
	if capital < target.MinCapital {
		capital = target.MinCapital
	}
	if target.MaxCapital > 0 && capital > target.MaxCapital {
		capital = target.MaxCapital
	}

	if err := h.coverageService.AdjustCapital(sessionID, coverageID, capital); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(h.listResponse(sessionID)))
}

func (h *CoverageHandler) listResponse(sessionID string) models.CoverageListResponse {
	coverages := h.coverageService.Coverages(sessionID)
	return models.CoverageListResponse{
		Coverages:      coverages,
		MainSusep:      h.coverageService.MainSusep(sessionID),
		TotalPremium:   services.TotalPremium(coverages),
		TotalIndemnity: services.TotalIndemnity(coverages),
	}
}
