package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/money"
	"github.com/otienobrian/fundi_connect/notifications"
	"github.com/otienobrian/fundi_connect/payments"
	"github.com/otienobrian/fundi_connect/services"
	"github.com/otienobrian/fundi_connect/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateRequestRequest struct {
	CategoryID    string  `json:"category_id" validate:"required,uuid"`
	ScheduledAt   *string `json:"scheduled_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ScheduledDate *string `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Details       *string `json:"details,omitempty"`
	Address       string  `json:"address" validate:"required"`
}

func CreateServiceRequest(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	customerID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.ScheduledAt == nil && req.ScheduledDate == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A scheduled time or date is required"})
	}

	categoryID, _ := uuid.Parse(req.CategoryID)
	var category models.ServiceCategory
	if err := database.DB.First(&category, "id = ? AND is_active = ?", categoryID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service category not found"})
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.ScheduledAt)
		if parsed.Before(time.Now()) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Scheduled time cannot be in the past"})
		}
		scheduledAt = &parsed
	}

	var request models.ServiceRequest
	var payment models.Payment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		reference, err := utils.GenerateUniqueReference(tx)
		if err != nil {
			return errors.New("failed to generate booking reference")
		}

		request = models.ServiceRequest{
			Reference:     reference,
			CustomerID:    customerID,
			CategoryID:    category.ID,
			Status:        services.StatusPending,
			Details:       req.Details,
			Address:       req.Address,
			ScheduledAt:   scheduledAt,
			ScheduledDate: req.ScheduledDate,
			TotalCents:    category.BasePriceCents,
			Currency:      category.Currency,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		payment = models.Payment{
			ServiceRequestID: &request.ID,
			AmountCents:      request.TotalCents,
			Currency:         request.Currency,
			Provider:         "stripe",
			Status:           "pending",
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request":    request,
		"payment_id": payment.ID,
	})
}

func GetMyRequests(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	customerID, _ := uuid.Parse(claims["user_id"].(string))

	var requests []models.ServiceRequest
	database.DB.
		Preload("Category").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&requests)

	return c.JSON(requests)
}

type CancelRequestBody struct {
	Reason string `json:"reason" validate:"required"`
}

func CancelServiceRequest(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	callerID, _ := uuid.Parse(claims["user_id"].(string))
	isAdmin := claims["role"].(string) == "admin"

	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID format"})
	}

	var req CancelRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.CancelRequest(
		database.DB,
		payments.NewStripeService(),
		services.LoadFeeSchedule(),
		requestID, callerID, isAdmin, req.Reason, time.Now(),
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service request not found"})
		case errors.Is(err, services.ErrNotRequestOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your request"})
		case errors.Is(err, services.ErrAlreadyTerminal):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This request is already cancelled or completed"})
		default:
			log.Printf("🔥 Failed to cancel request %s: %v", requestID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel request"})
		}
	}

	var customer models.User
	if err := database.DB.First(&customer, "id = ?", callerID).Error; err == nil && !isAdmin {
		emailBody := "<p>Hi " + customer.FullName + ",</p><p>Your request has been cancelled."
		if result.FeeCents > 0 {
			emailBody += " A late cancellation fee of " + money.FormatUSD(result.FeeCents) + " applied."
		}
		if result.Refund == services.RefundSucceeded {
			emailBody += " A refund of " + money.FormatUSD(result.RefundCents) + " is on its way back to you."
		}
		emailBody += "</p>"
		go notifications.SendEmail(customer.FullName, customer.Email, "Your request has been cancelled", emailBody)
	}

	return c.JSON(result)
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func CreateReview(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	customerID, _ := uuid.Parse(claims["user_id"].(string))
	requestID := c.Params("requestId")

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newReview models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var request models.ServiceRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return errors.New("service request not found")
		}
		if request.CustomerID != customerID {
			return errors.New("you are not the customer for this request")
		}
		if request.Status != services.StatusCompleted && request.Status != services.StatusPaid {
			return errors.New("reviews can only be submitted for completed requests")
		}

		var assignment models.JobAssignment
		if err := tx.Where("service_request_id = ?", request.ID).First(&assignment).Error; err != nil {
			return errors.New("no fundi was assigned to this request")
		}

		var existingReview models.Review
		if err := tx.Where("service_request_id = ?", request.ID).First(&existingReview).Error; err == nil {
			return errors.New("a review for this request has already been submitted")
		}

		newReview = models.Review{
			ServiceRequestID: request.ID,
			CustomerID:       customerID,
			FundiID:          assignment.FundiID,
			Rating:           req.Rating,
			Comment:          req.Comment,
		}
		if err := tx.Create(&newReview).Error; err != nil {
			return err
		}

		var result struct {
			Avg float64
		}
		tx.Model(&models.Review{}).Where("fundi_id = ?", assignment.FundiID).Select("avg(rating) as avg").Scan(&result)

		return tx.Model(&models.Fundi{}).Where("user_id = ?", assignment.FundiID).Update("avg_rating", result.Avg).Error
	})

	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(newReview)
}
