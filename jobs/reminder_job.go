package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/notifications"
)

// SendServiceReminders emails both parties of jobs scheduled to start within
// the next hour. Only requests with an exact scheduled time get reminders;
// date-only bookings have no meaningful "one hour before".
func SendServiceReminders() {
	log.Println("Running job: SendServiceReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingAssignments []models.JobAssignment
	err := database.DB.
		Preload("Fundi").
		Preload("ServiceRequest.Customer").
		Preload("ServiceRequest.Category").
		Joins("JOIN service_requests on job_assignments.service_request_id = service_requests.id").
		Where("job_assignments.status = ? AND service_requests.scheduled_at BETWEEN ? AND ?",
			"assigned", lowerBound, upperBound).
		Find(&upcomingAssignments).Error
	if err != nil {
		log.Printf("Error checking for upcoming jobs: %v", err)
		return
	}

	if len(upcomingAssignments) == 0 {
		return
	}

	for _, assignment := range upcomingAssignments {
		request := assignment.ServiceRequest
		log.Printf("Sending reminder for assignment ID: %s", assignment.ID)

		emailSubject := "Reminder: Your Job Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Job Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that job <b>%s</b> (%s) is scheduled to start in one hour at %s.</p><p><b>Address:</b> %s</p>",
			request.Reference,
			request.Category.Name,
			request.ScheduledAt.Format(time.Kitchen),
			request.Address,
		)

		go notifications.SendEmail(request.Customer.FullName, request.Customer.Email, emailSubject, emailBody)
		go notifications.SendEmail(assignment.Fundi.FullName, assignment.Fundi.Email, emailSubject, emailBody)
	}
}
