package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/money"
	"github.com/otienobrian/fundi_connect/notifications"
	"github.com/otienobrian/fundi_connect/payments"
	"github.com/otienobrian/fundi_connect/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// RequestInstantPayout cashes out everything the authenticated fundi can
// currently withdraw.
func RequestInstantPayout(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	payout, err := services.ProcessInstantPayout(database.DB, payments.NewStripeService(), fundiID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPayoutAccount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No payout account on file. Add one before cashing out."})
		case errors.Is(err, services.ErrPayoutsDisabled):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Your payout account is not enabled yet."})
		case errors.Is(err, services.ErrNothingToCashOut):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to cash out."})
		case errors.Is(err, services.ErrBelowMinimum):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is below the minimum cash out."})
		case errors.Is(err, services.ErrNetNotPositive):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Amount is too small to cover the payout fee."})
		default:
			// The transfer failed or could not be finalized; the payout row
			// holds the reason and the earnings stay cashable for a retry.
			log.Printf("🔥 Instant payout for fundi %s failed: %v", fundiID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payout failed. Your earnings are untouched; please try again."})
		}
	}

	var fundiUser models.User
	if err := database.DB.First(&fundiUser, "id = ?", fundiID).Error; err == nil {
		go notifications.SendEmail(fundiUser.FullName, fundiUser.Email,
			"Your instant payout is on its way",
			fmt.Sprintf("<p>Hi %s,</p><p>We just sent you %s (%d earning(s), %s fee). It should land in your account shortly.</p>",
				fundiUser.FullName, money.FormatUSD(payout.NetCents), payout.EarningCount, money.FormatUSD(payout.FeeCents)))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payout_id":     payout.ID,
		"gross_cents":   payout.GrossCents,
		"fee_cents":     payout.FeeCents,
		"net_cents":     payout.NetCents,
		"earning_count": payout.EarningCount,
		"transfer_id":   payout.TransferID,
	})
}

func GetMyPayouts(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	var payouts []models.Payout
	database.DB.
		Where("fundi_id = ?", fundiID).
		Order("created_at desc").
		Find(&payouts)

	return c.JSON(payouts)
}
