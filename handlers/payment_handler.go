package handlers

import (
	"log"

	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/notifications"
	"github.com/gofiber/fiber/v2"
)

type StripeWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Metadata struct {
				PaymentID string `json:"payment_id"`
			} `json:"metadata"`
			LastPaymentError struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

func HandlePaymentWebhook(c *fiber.Ctx) error {
	var payload StripeWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	paymentID := payload.Data.Object.Metadata.PaymentID
	if paymentID == "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Ignored: no payment reference"})
	}

	log.Printf("Received webhook %s for payment %s", payload.Type, paymentID)

	var payment models.Payment
	if err := database.DB.Where("id = ?", paymentID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}

	if payment.Status == "succeeded" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	switch payload.Type {
	case "payment_intent.succeeded":
		txnID := payload.Data.Object.ID
		payment.Status = "succeeded"
		payment.ProviderTxnID = &txnID
		if err := database.DB.Save(&payment).Error; err != nil {
			log.Printf("🔥 CRITICAL: Failed to record succeeded payment %s: %v", paymentID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}

		if payment.ServiceRequestID != nil {
			var request models.ServiceRequest
			if err := database.DB.Preload("Customer").First(&request, "id = ?", payment.ServiceRequestID).Error; err == nil {
				go notifications.SendEmail(request.Customer.FullName, request.Customer.Email,
					"Your Booking is Confirmed!",
					"<h1>Booking Confirmed</h1><p>Your payment for booking "+request.Reference+" was successful. A fundi will be assigned shortly.</p>")
			}
		}

	case "payment_intent.payment_failed":
		payment.Status = "failed"
		database.DB.Save(&payment)

	default:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Ignored event type"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}
