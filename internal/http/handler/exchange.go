package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"propapi/internal/http/middleware"
	"propapi/internal/money"
	"propapi/internal/service"
)

// GetExchangeRate returns the base to target rate, or a conversion when ?amount= (minor units) is given.
//
//	@Summary	Look up an exchange rate
//	@Tags		exchange
//	@Produce	json
//	@Param		base	query		string	true	"ISO 4217 base currency"
//	@Param		target	query		string	true	"ISO 4217 target currency"
//	@Param		amount	query		int		false	"Amount in minor units of base"
//	@Success	200		{object}	exchange.Rate
//	@Failure	400		{object}	errorPayload
//	@Failure	502		{object}	errorPayload
//	@Security	BearerAuth
//	@Router		/api/v1/exchange-rates [get]
func GetExchangeRate(svc service.ExchangeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		base, target := c.Query("base"), c.Query("target")
		if base == "" || target == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "base and target are required")
		}

		if raw := c.Query("amount"); raw != "" {
			amount, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_AMOUNT", "amount must be an integer in minor units")
			}
			conv, err := svc.Convert(c.UserContext(), amount, base, target)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(conv)
		}

		rate, err := svc.Rate(c.UserContext(), base, target)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rate)
	}
}

type formattedAmount struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Locale    string `json:"locale"`
	Formatted string `json:"formatted"`
}

// FormatCurrency renders an amount in minor units for display in a locale.
func FormatCurrency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AMOUNT", "amount must be an integer in minor units")
		}
		tag := middleware.LocaleFrom(c)
		if raw := c.Query("locale"); raw != "" {
			tag = money.ParseLocale(raw)
		}

		s, err := money.Format(amount, c.Query("currency"), tag)
		if err != nil {
			return writeServiceError(c, err)
		}
		unit, _ := money.ParseCurrency(c.Query("currency"))
		return c.JSON(formattedAmount{
			Amount:    amount,
			Currency:  unit.String(),
			Locale:    tag.String(),
			Formatted: s,
		})
	}
}
