package handlers

import (
	"net/http"

	"quoting-service/internal/models"
	"quoting-service/internal/services"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

type WidgetHandler struct {
	wizardService *services.WizardService
	bridge        *services.WidgetBridge
}

func NewWidgetHandler(wizardService *services.WizardService, bridge *services.WidgetBridge) *WidgetHandler {
	return &WidgetHandler{wizardService: wizardService, bridge: bridge}
}

func (h *WidgetHandler) Register(app *fiber.App) {
	gr := app.Group("simulator/api/v1/sessions/:id/widgets/:provider")
	gr.Post("/init", h.Init)
	gr.Get("/frame-token", h.FrameToken)
	gr.Post("/messages", h.HandleMessage)
}

func parseProvider(raw string) (services.WidgetProvider, error) {
	switch services.WidgetProvider(raw) {
	case services.ProviderQuestionnaire:
		return services.ProviderQuestionnaire, nil
	case services.ProviderPayment:
		return services.ProviderPayment, nil
	default:
		return "", services.ErrUnknownProvider
	}
}

func (h *WidgetHandler) Init(c fiber.Ctx) error {
	provider, err := parseProvider(c.Params("provider"))
	if err != nil {
		return respondServiceError(c, err)
	}

	session, err := h.wizardService.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	resp, err := h.bridge.Init(c.Context(), session, provider)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(resp))
}

func (h *WidgetHandler) FrameToken(c fiber.Ctx) error {
	provider, err := parseProvider(c.Params("provider"))
	if err != nil {
		return respondServiceError(c, err)
	}

	session, err := h.wizardService.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	msg, err := h.bridge.FrameToken(c.Context(), session, provider)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(msg))
}

// HandleMessage relays one raw frame message. The response always reports
// whether a completion was applied; noise is accepted with applied=false so
// the client never has to special-case chatty frames.
func (h *WidgetHandler) HandleMessage(c fiber.Ctx) error {
	provider, err := parseProvider(c.Params("provider"))
	if err != nil {
		return respondServiceError(c, err)
	}

	var req models.WidgetMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_BODY", "Invalid message payload"))
	}
	if err := req.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(
			utils.CreateErrorResponse("INVALID_MESSAGE", err.Error()))
	}

	applied, err := h.bridge.HandleMessage(c.Context(), c.Params("id"), provider, req.Origin, req.Data)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"applied": applied,
	}))
}
