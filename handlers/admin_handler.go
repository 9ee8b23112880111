package handlers

import (
	"errors"
	"log"
	"time"

	config "github.com/otienobrian/fundi_connect/configs"
	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/money"
	"github.com/otienobrian/fundi_connect/notifications"
	"github.com/otienobrian/fundi_connect/services"
	"github.com/otienobrian/fundi_connect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ListPendingApplications(c *fiber.Ctx) error {
	var pendingFundis []models.Fundi
	if err := database.DB.Preload("User").Where("status = ?", "pending").Find(&pendingFundis).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(pendingFundis)
}

type ManageApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=active rejected"`
}

func ManageFundiApplication(c *fiber.Ctx) error {
	var req ManageApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fundiUserID := c.Params("fundiId")

	var application models.Fundi
	if err := database.DB.Where("user_id = ?", fundiUserID).First(&application).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
	}

	var user models.User
	if err := database.DB.Where("id = ?", fundiUserID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Associated user not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		application.Status = req.Status
		if err := tx.Save(&application).Error; err != nil {
			return err
		}
		if req.Status == "active" {
			user.Role = "fundi"
			return tx.Save(&user).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update application status"})
	}

	switch req.Status {
	case "active":
		go notifications.SendEmail(
			user.FullName,
			user.Email,
			"Your FundiConnect Application has been Approved!",
			"<h1>Karibu!</h1><p>Your application has been approved. Complete identity verification and add a payout account to start receiving jobs.</p>",
		)
	case "rejected":
		go notifications.SendEmail(
			user.FullName,
			user.Email,
			"Update on Your FundiConnect Application",
			"<h1>Application Update</h1><p>We regret to inform you that after careful review, your application was not approved at this time.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": "Application status updated successfully"})
}

// EnableFundiPayouts flips the payout switch once identity verification and
// the payout account are both in place.
func EnableFundiPayouts(c *fiber.Ctx) error {
	var fundi models.Fundi
	if err := database.DB.Preload("User").Where("user_id = ?", c.Params("fundiId")).First(&fundi).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Fundi not found"})
	}

	if fundi.IdentityStatus != "verified" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Fundi has not completed identity verification"})
	}
	if fundi.PayoutAccountID == nil || *fundi.PayoutAccountID == "" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Fundi has no payout account on file"})
	}

	fundi.PayoutsEnabled = true
	if err := database.DB.Save(&fundi).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enable payouts"})
	}

	go notifications.SendEmail(fundi.User.FullName, fundi.User.Email,
		"Instant Payouts Enabled",
		"<h1>You're all set</h1><p>Instant payouts are now enabled on your account. You can cash out your earnings any time.</p>")

	return c.JSON(fiber.Map{"message": "Payouts enabled"})
}

type AssignFundiRequest struct {
	FundiID string `json:"fundi_id" validate:"required,uuid"`
}

func AssignFundi(c *fiber.Ctx) error {
	var req AssignFundiRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	fundiID, _ := uuid.Parse(req.FundiID)

	var request models.ServiceRequest
	if err := database.DB.First(&request, "id = ?", c.Params("requestId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service request not found"})
	}
	switch request.Status {
	case services.StatusCancelled, services.StatusCompleted, services.StatusPaid:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This request is already closed"})
	}

	var fundi models.Fundi
	if err := database.DB.Preload("User").Where("user_id = ? AND status = ?", fundiID, "active").First(&fundi).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active fundi not found"})
	}

	var existing models.JobAssignment
	if err := database.DB.Where("service_request_id = ?", request.ID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This request already has an assignment"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	commissionRate := config.ConfigFloat("PLATFORM_COMMISSION_RATE", 0.20)
	payoutCents := request.TotalCents - money.PercentageOf(request.TotalCents, commissionRate)

	assignment := models.JobAssignment{
		ServiceRequestID: request.ID,
		FundiID:          fundiID,
		Status:           "assigned",
		PayoutCents:      payoutCents,
		AssignedAt:       time.Now(),
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create assignment"})
	}

	go notifications.SendEmail(fundi.User.FullName, fundi.User.Email,
		"You Have a New Job!",
		"<h1>New Job</h1><p>You have been assigned a new job ("+request.Reference+"). You will earn "+money.FormatUSD(payoutCents)+" on completion.</p>")
	go websocket.NotifyJobEvent(request.CustomerID, fundiID, "job_assigned", assignment.ID)

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

type UpdateStatusRequest struct {
	Status      string  `json:"status" validate:"required"`
	Details     *string `json:"details,omitempty"`
	ScheduledAt *string `json:"scheduled_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	TotalCents  *int64  `json:"total_cents,omitempty"`
}

// UpdateRequestStatus is the administrative status-change entry point. The
// new status is mirrored onto the job assignment and, where it matters, the
// fundi's earnings ledger.
func UpdateRequestStatus(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID format"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	update := &services.StatusUpdate{
		Details:    req.Details,
		TotalCents: req.TotalCents,
	}
	if req.ScheduledAt != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.ScheduledAt)
		update.ScheduledAt = &parsed
	}

	request, err := services.ApplyStatusChange(database.DB, requestID, req.Status, update, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service request not found"})
		}
		if request != nil {
			// The request itself was updated; the mirror write failed and is
			// surfaced without undoing the primary update.
			log.Printf("🔥 Mirror write failed for request %s: %v", requestID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Status updated but the assignment mirror failed",
				"request": request,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}

	var assignment models.JobAssignment
	if err := database.DB.Where("service_request_id = ?", request.ID).First(&assignment).Error; err == nil {
		go websocket.NotifyJobEvent(request.CustomerID, assignment.FundiID, "status_"+request.Status, assignment.ID)
	}

	if request.Status == services.StatusCompleted || request.Status == services.StatusPaid {
		go services.IssueCompletionReceipt(request.ID)
	}

	return c.JSON(request)
}

func ListRequests(c *fiber.Ctx) error {
	status := c.Query("status")

	query := database.DB.Preload("Customer").Preload("Category").Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(requests)
}

func ListAllPayouts(c *fiber.Ctx) error {
	status := c.Query("status")

	query := database.DB.Order("created_at desc")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var payouts []models.Payout
	if err := query.Find(&payouts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payouts)
}
