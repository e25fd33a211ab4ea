package handlers

import (
	"net/http"

	"quoting-service/internal/services"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

type ProposalHandler struct {
	wizardService   *services.WizardService
	proposalService *services.ProposalService
}

func NewProposalHandler(wizardService *services.WizardService, proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{wizardService: wizardService, proposalService: proposalService}
}

func (h *ProposalHandler) Register(app *fiber.App) {
	gr := app.Group("simulator/api/v1")
	gr.Post("/sessions/:id/submit", h.Submit)
	gr.Get("/proposals/:number", h.GetSubmitted)
}

func (h *ProposalHandler) Submit(c fiber.Ctx) error {
	session, err := h.wizardService.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	resp, err := h.proposalService.Submit(c.Context(), session)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(resp))
}

func (h *ProposalHandler) GetSubmitted(c fiber.Ctx) error {
	proposal, err := h.proposalService.GetSubmitted(c.Context(), c.Params("number"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("PROPOSAL_NOT_FOUND", "Proposal not found"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(proposal))
}
