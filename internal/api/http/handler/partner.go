package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo"
	"github.com/Alijeyrad/transfers_backend/internal/service/partner"
)

type PartnerHandler struct {
	svc partner.Service
}

func NewPartnerHandler(svc partner.Service) *PartnerHandler {
	return &PartnerHandler{svc: svc}
}

func mapPartnerError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, partner.ErrPartnerNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, partner.ErrInvalidRange):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

func pageFromQuery(c fiber.Ctx) repo.Page {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "20"))
	return repo.Page{Page: page, PerPage: perPage}.Normalize()
}

// GET /partners/:id/stats?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *PartnerHandler) Stats(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid partner id")
	}

	var req partner.StatsRequest
	if raw := c.Query("from"); raw != "" {
		if req.From, err = parseDate(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if raw := c.Query("to"); raw != "" {
		if req.To, err = parseDate(raw); err != nil {
			return badRequest(c, err.Error())
		}
	}

	stats, err := h.svc.GetStats(c.Context(), id, req)
	if err != nil {
		return mapPartnerError(c, err)
	}
	return ok(c, stats)
}

// GET /partners/:id/transactions
func (h *PartnerHandler) Transactions(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid partner id")
	}
	page := pageFromQuery(c)

	txs, err := h.svc.ListTransactions(c.Context(), id, page)
	if err != nil {
		return mapPartnerError(c, err)
	}
	return c.JSON(fiber.Map{"data": txs, "page": page.Page, "per_page": page.PerPage})
}

// GET /partners/:id/payouts
func (h *PartnerHandler) Payouts(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid partner id")
	}
	page := pageFromQuery(c)

	payouts, err := h.svc.ListPayouts(c.Context(), id, page)
	if err != nil {
		return mapPartnerError(c, err)
	}
	return c.JSON(fiber.Map{"data": payouts, "page": page.Page, "per_page": page.PerPage})
}
