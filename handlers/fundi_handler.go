package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/payments"
	"github.com/otienobrian/fundi_connect/services"
	"github.com/otienobrian/fundi_connect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FundiApplicationRequest struct {
	Headline string `json:"headline" validate:"required"`
	Bio      string `json:"bio" validate:"required"`
}

func ApplyToBeAFundi(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req FundiApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existingFundi models.Fundi
	err := database.DB.Where("user_id = ?", userID).First(&existingFundi).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	newApplication := models.Fundi{
		UserID:   userID,
		Headline: &req.Headline,
		Bio:      &req.Bio,
	}
	if err := database.DB.Create(&newApplication).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	return c.Status(fiber.StatusCreated).JSON(newApplication)
}

func GetMyJobs(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	var jobs []models.JobAssignment
	database.DB.
		Preload("ServiceRequest.Category").
		Preload("ServiceRequest.Customer").
		Where("fundi_id = ?", fundiID).
		Order("assigned_at desc").
		Find(&jobs)

	return c.JSON(jobs)
}

func loadOwnedAssignment(c *fiber.Ctx) (*models.JobAssignment, error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	var assignment models.JobAssignment
	if err := database.DB.First(&assignment, "id = ?", c.Params("jobId")).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}
	if assignment.FundiID != fundiID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your job"})
	}
	return &assignment, nil
}

func StartJob(c *fiber.Ctx) error {
	assignment, errResp := loadOwnedAssignment(c)
	if assignment == nil {
		return errResp
	}
	if assignment.Status != "assigned" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only assigned jobs can be started"})
	}

	now := time.Now()
	if assignment.StartedAt == nil {
		assignment.StartedAt = &now
		if err := database.DB.Save(assignment).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start job"})
		}
	}

	request, err := services.ApplyStatusChange(database.DB, assignment.ServiceRequestID, services.StatusInProgress, nil, now)
	if err != nil {
		log.Printf("🔥 Failed to start job %s: %v", assignment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start job"})
	}

	go websocket.NotifyJobEvent(request.CustomerID, assignment.FundiID, "job_started", assignment.ID)

	return c.JSON(fiber.Map{"message": "Job started", "request": request})
}

func CheckOutJob(c *fiber.Ctx) error {
	assignment, errResp := loadOwnedAssignment(c)
	if assignment == nil {
		return errResp
	}
	if assignment.Status != services.StatusInProgress {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only jobs in progress can be checked out"})
	}

	request, err := services.ApplyStatusChange(database.DB, assignment.ServiceRequestID, services.StatusPendingVerification, nil, time.Now())
	if err != nil {
		log.Printf("🔥 Failed to check out job %s: %v", assignment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check out job"})
	}

	go websocket.NotifyJobEvent(request.CustomerID, assignment.FundiID, "job_checked_out", assignment.ID)

	return c.JSON(fiber.Map{"message": "Job checked out and awaiting verification", "request": request})
}

func GetMyEarnings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	type statusTotal struct {
		Status string
		Total  int64
		Count  int64
	}
	var totals []statusTotal
	database.DB.Model(&models.Earning{}).
		Select("status, sum(amount_cents) as total, count(*) as count").
		Where("fundi_id = ?", fundiID).
		Group("status").
		Scan(&totals)

	summary := fiber.Map{
		"pending_cents":   int64(0),
		"available_cents": int64(0),
		"paid_out_cents":  int64(0),
	}
	for _, row := range totals {
		switch row.Status {
		case models.EarningStatusPending:
			summary["pending_cents"] = row.Total
		case models.EarningStatusAvailable:
			summary["available_cents"] = row.Total
		case models.EarningStatusPaidOut:
			summary["paid_out_cents"] = row.Total
		}
	}

	var cashable int64
	database.DB.Model(&models.Earning{}).
		Select("coalesce(sum(amount_cents), 0)").
		Where("fundi_id = ? AND payout_id IS NULL AND (status = ? OR (status = ? AND available_at <= ?))",
			fundiID, models.EarningStatusAvailable, models.EarningStatusPending, time.Now()).
		Scan(&cashable)
	summary["cashable_cents"] = cashable

	return c.JSON(summary)
}

type PayoutAccountRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

// SetPayoutAccount attaches the fundi's connected provider account. Payouts
// stay disabled until an admin enables them after identity verification.
func SetPayoutAccount(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	var req PayoutAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var fundi models.Fundi
	if err := database.DB.Where("user_id = ?", fundiID).First(&fundi).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fundi profile not found"})
	}

	fundi.PayoutAccountID = &req.AccountID
	if err := database.DB.Save(&fundi).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save payout account"})
	}

	return c.JSON(fiber.Map{"message": "Payout account saved"})
}

func StartIdentityVerification(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	var fundi models.Fundi
	if err := database.DB.Where("user_id = ?", fundiID).First(&fundi).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fundi profile not found"})
	}

	session, err := payments.NewStripeService().CreateVerificationSession(fundiID.String())
	if err != nil {
		log.Printf("🔥 Failed to create verification session for fundi %s: %v", fundiID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Identity verification could not be started"})
	}

	fundi.IdentitySessionID = &session.ID
	fundi.IdentityStatus = "processing"
	if err := database.DB.Save(&fundi).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save verification session"})
	}

	return c.JSON(fiber.Map{
		"session_id":    session.ID,
		"client_secret": session.ClientSecret,
		"url":           session.URL,
	})
}

func GetIdentityVerification(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	fundiID, _ := uuid.Parse(claims["user_id"].(string))

	var fundi models.Fundi
	if err := database.DB.Where("user_id = ?", fundiID).First(&fundi).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fundi profile not found"})
	}
	if fundi.IdentitySessionID == nil {
		return c.JSON(fiber.Map{"status": fundi.IdentityStatus})
	}

	session, err := payments.NewStripeService().RetrieveVerificationSession(*fundi.IdentitySessionID)
	if err != nil {
		log.Printf("🔥 Failed to retrieve verification session for fundi %s: %v", fundiID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Could not retrieve verification status"})
	}

	if session.Status == "verified" && fundi.IdentityStatus != "verified" {
		fundi.IdentityStatus = "verified"
		database.DB.Save(&fundi)
	}

	return c.JSON(fiber.Map{"status": session.Status})
}
