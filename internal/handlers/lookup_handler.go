package handlers

import (
	"log/slog"
	"net/http"

	"quoting-service/internal/services"
	"quoting-service/utils"

	"github.com/gofiber/fiber/v3"
)

type LookupHandler struct {
	insurerClient  services.IInsurerClient
	addressService services.IAddressService
}

func NewLookupHandler(insurerClient services.IInsurerClient, addressService services.IAddressService) *LookupHandler {
	return &LookupHandler{insurerClient: insurerClient, addressService: addressService}
}

func (h *LookupHandler) Register(app *fiber.App) {
	gr := app.Group("simulator/api/v1/lookup")
	gr.Get("/professions", h.GetProfessions)
	gr.Get("/address/:cep", h.GetAddress)
}

func (h *LookupHandler) GetProfessions(c fiber.Ctx) error {
	professions, err := h.insurerClient.GetProfessions(c.Context())
	if err != nil {
		slog.Error("Failed to get professions", "error", err)
		return c.Status(http.StatusBadGateway).JSON(
			utils.CreateErrorResponse("LOOKUP_FAILED", "Failed to retrieve professions"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(map[string]interface{}{
		"professions": professions,
		"count":       len(professions),
	}))
}

func (h *LookupHandler) GetAddress(c fiber.Ctx) error {
	address, err := h.addressService.LookupCEP(c.Context(), c.Params("cep"))
	if err != nil {
		slog.Warn("CEP lookup failed", "cep", c.Params("cep"), "error", err)
		return c.Status(http.StatusNotFound).JSON(
			utils.CreateErrorResponse("CEP_NOT_FOUND", "Address not found for this CEP"))
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(address))
}
