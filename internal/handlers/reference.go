package handlers

import (
	"agency/internal/models"
	"agency/internal/services/reference"
	"agency/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ReferenceHandler struct {
	referenceService reference.Service
}

func NewReferenceHandler(referenceService reference.Service) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) ListBanks(c *fiber.Ctx) error {
	banks, err := h.referenceService.ListBanks(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Banks retrieved successfully", banks)
}

func (h *ReferenceHandler) ListAccountTypes(c *fiber.Ctx) error {
	types, err := h.referenceService.ListAccountTypes(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Account types retrieved successfully", types)
}

func (h *ReferenceHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.referenceService.ListCompanies(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Companies retrieved successfully", companies)
}

func (h *ReferenceHandler) CreateCompany(c *fiber.Ctx) error {
	var input models.CreateCompanyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	company, err := h.referenceService.CreateCompany(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Company created successfully", company)
}
