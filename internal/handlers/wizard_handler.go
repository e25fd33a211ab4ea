package handlers

import (
	"log/slog"
	"net/http"

	"quoting-service/internal/models"
	"quoting-service/internal/services"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

type WizardHandler struct {
	wizardService *services.WizardService
}

func NewWizardHandler(wizardService *services.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: wizardService}
}

func (h *WizardHandler) Register(app *fiber.App) {
	gr := app.Group("simulator/api/v1")

	sessionGroup := gr.Group("/sessions")
	sessionGroup.Post("/", h.CreateSession)
	sessionGroup.Get("/:id", h.GetSession)
	sessionGroup.Post("/:id/form", h.PatchForm)
	sessionGroup.Post("/:id/advance", h.Advance)
	sessionGroup.Post("/:id/retreat", h.Retreat)
	sessionGroup.Post("/:id/reset", h.Reset)

	benGroup := sessionGroup.Group("/:id/beneficiaries")
	benGroup.Post("/", h.AddBeneficiary)
	benGroup.Patch("/:benID", h.UpdateBeneficiary)
	benGroup.Delete("/:benID", h.RemoveBeneficiary)
}

func (h *WizardHandler) CreateSession(c fiber.Ctx) error {
	var req models.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(
				utils.CreateErrorResponse("INVALID_BODY", "Invalid request body"))
		}
	}

	session := h.wizardService.CreateSession(req.Credential)
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(session))
}

func (h *WizardHandler) GetSession(c fiber.Ctx) error {
	session, err := h.wizardService.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(session))
}

// PatchForm merges a partial form payload. Validation for the touched fields
// runs immediately so the client's field errors stay current while typing.
func (h *WizardHandler) PatchForm(c fiber.Ctx) error {
	sessionID := c.Params("id")

	var patch models.FormDataPatch
	if err := c.Bind().Body(&patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Invalid form payload"))
	}
	utils.TrimStringFields(&patch)

	session, err := h.wizardService.SetFormData(c.Context(), sessionID, &patch)
	if err != nil {
		return respondServiceError(c, err)
	}

	fieldErrors := services.ValidateStep(session.CurrentStep, &session.FormData)
	if err := h.wizardService.SetValidationStatus(c.Context(), sessionID, fieldErrors); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"current_step":      session.CurrentStep,
		"form_data":         session.FormData,
		"validation_status": fieldErrors,
	}))
}

// Advance re-validates the current step and moves forward only when every
// owned field passes.
func (h *WizardHandler) Advance(c fiber.Ctx) error {
	sessionID := c.Params("id")

	session, err := h.wizardService.GetSession(c.Context(), sessionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	fieldErrors := services.ValidateStep(session.CurrentStep, &session.FormData)
	if err := h.wizardService.SetValidationStatus(c.Context(), sessionID, fieldErrors); err != nil {
		return respondServiceError(c, err)
	}

	if !services.StepGate(session.CurrentStep, &session.FormData) {
		slog.Info("step advance blocked", "session_id", sessionID, "step", session.CurrentStep)
		return respondServiceError(c, services.ErrStepGated)
	}

	step, err := h.wizardService.Advance(c.Context(), sessionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"current_step": step,
	}))
}

func (h *WizardHandler) Retreat(c fiber.Ctx) error {
	step, err := h.wizardService.Retreat(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"current_step": step,
	}))
}

func (h *WizardHandler) Reset(c fiber.Ctx) error {
	if err := h.wizardService.Reset(c.Context(), c.Params("id")); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"current_step": 1,
	}))
}

func (h *WizardHandler) AddBeneficiary(c fiber.Ctx) error {
	ben, err := h.wizardService.AddBeneficiary(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(ben))
}

func (h *WizardHandler) UpdateBeneficiary(c fiber.Ctx) error {
	var patch models.BeneficiaryPatch
	if err := c.Bind().Body(&patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Invalid beneficiary payload"))
	}
	utils.TrimStringFields(&patch)

	if err := h.wizardService.UpdateBeneficiary(c.Context(), c.Params("id"), c.Params("benID"), &patch); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"updated": true,
	}))
}

func (h *WizardHandler) RemoveBeneficiary(c fiber.Ctx) error {
	if err := h.wizardService.RemoveBeneficiary(c.Context(), c.Params("id"), c.Params("benID")); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"deleted": true,
	}))
}
