package handlers

import (
	"agency/internal/models"
	"agency/internal/services/policy"
	"agency/internal/utils/pagination"
	"agency/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PolicyHandler struct {
	policyService policy.Service
}

func NewPolicyHandler(policyService policy.Service) *PolicyHandler {
	return &PolicyHandler{policyService: policyService}
}

func (h *PolicyHandler) ListPolicies(c *fiber.Ctx) error {
	policies, err := h.policyService.ListPolicies(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	p := pagination.ParseFromRequest(c)
	page := pagination.Slice(policies, &p)
	return c.JSON(pagination.Response(p, page))
}

func (h *PolicyHandler) GetPolicy(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return response.BadRequest(c, "Invalid policy ID")
	}

	p, err := h.policyService.GetPolicy(c.UserContext(), uint(policyID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Policy retrieved successfully", p)
}

func (h *PolicyHandler) CreatePolicy(c *fiber.Ctx) error {
	var input models.CreatePolicyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	p, err := h.policyService.CreatePolicy(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Policy issued successfully", p)
}

func (h *PolicyHandler) CancelPolicy(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return response.BadRequest(c, "Invalid policy ID")
	}

	p, err := h.policyService.CancelPolicy(c.UserContext(), uint(policyID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Policy cancelled", p)
}

func (h *PolicyHandler) ListPayments(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return response.BadRequest(c, "Invalid policy ID")
	}

	payments, err := h.policyService.ListPayments(c.UserContext(), uint(policyID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payments retrieved successfully", payments)
}

func (h *PolicyHandler) RegisterPayment(c *fiber.Ctx) error {
	policyID, err := c.ParamsInt("id")
	if err != nil || policyID <= 0 {
		return response.BadRequest(c, "Invalid policy ID")
	}
	paymentID, err := c.ParamsInt("paymentId")
	if err != nil || paymentID <= 0 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var input models.RegisterPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	payment, err := h.policyService.RegisterPayment(c.UserContext(), uint(policyID), uint(paymentID), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Payment registered", payment)
}
