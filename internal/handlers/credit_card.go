package handlers

import (
	"time"

	"agency/internal/models"
	creditcard "agency/internal/services/credit_card"
	"agency/internal/utils/pagination"
	"agency/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CreditCardHandler struct {
	cardService creditcard.Service
}

func NewCreditCardHandler(cardService creditcard.Service) *CreditCardHandler {
	return &CreditCardHandler{cardService: cardService}
}

// ListCards returns every card, or one customer's cards with ?customer_id=.
func (h *CreditCardHandler) ListCards(c *fiber.Ctx) error {
	var (
		cards []*models.CreditCard
		err   error
	)
	if customerID := c.QueryInt("customer_id"); customerID > 0 {
		cards, err = h.cardService.GetCustomerCards(c.UserContext(), uint(customerID))
	} else {
		cards, err = h.cardService.ListCards(c.UserContext())
	}
	if err != nil {
		return response.FromError(c, err)
	}

	p := pagination.ParseFromRequest(c)
	page := pagination.Slice(cards, &p)
	return c.JSON(pagination.Response(p, page))
}

func (h *CreditCardHandler) GetCard(c *fiber.Ctx) error {
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return response.BadRequest(c, "Invalid card ID")
	}

	card, err := h.cardService.GetCard(c.UserContext(), uint(cardID))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Card retrieved successfully", card)
}

func (h *CreditCardHandler) CreateCard(c *fiber.Ctx) error {
	var input models.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	card, err := h.cardService.CreateCard(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Credit card registered successfully", card)
}

func (h *CreditCardHandler) UpdateExpiration(c *fiber.Ctx) error {
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return response.BadRequest(c, "Invalid card ID")
	}
	var input struct {
		ExpirationDate time.Time `json:"expiration_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	card, err := h.cardService.UpdateExpiration(c.UserContext(), uint(cardID), input.ExpirationDate)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Card updated successfully", card)
}

func (h *CreditCardHandler) DeleteCard(c *fiber.Ctx) error {
	cardID, err := c.ParamsInt("id")
	if err != nil || cardID <= 0 {
		return response.BadRequest(c, "Invalid card ID")
	}

	if err := h.cardService.DeleteCard(c.UserContext(), uint(cardID)); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Card deleted successfully", nil)
}
