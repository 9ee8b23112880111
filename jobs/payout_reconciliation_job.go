package jobs

import (
	"fmt"
	"log"
	"time"

	config "github.com/otienobrian/fundi_connect/configs"
	"github.com/otienobrian/fundi_connect/database"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/money"
	"github.com/otienobrian/fundi_connect/notifications"
)

// ReconcileStuckPayouts flags payouts that have been sitting in "processing"
// for too long. A payout normally finalizes within seconds of the provider
// call; anything older than 15 minutes means the process died mid-saga and
// an operator has to check the provider dashboard before retrying.
func ReconcileStuckPayouts() {
	log.Println("Running job: ReconcileStuckPayouts...")

	cutoff := time.Now().Add(-15 * time.Minute)

	var stuckPayouts []models.Payout
	err := database.DB.
		Where("status = ? AND created_at < ?", models.PayoutStatusProcessing, cutoff).
		Find(&stuckPayouts).Error
	if err != nil {
		log.Printf("Error checking for stuck payouts: %v", err)
		return
	}

	if len(stuckPayouts) == 0 {
		return
	}

	for _, payout := range stuckPayouts {
		log.Printf("⚠️ Payout %s for fundi %s stuck in processing since %s (net %s)",
			payout.ID, payout.FundiID, payout.CreatedAt.Format(time.RFC3339), money.FormatUSD(payout.NetCents))
	}

	adminEmail := config.Config("ADMIN_EMAIL")
	if adminEmail == "" {
		return
	}

	emailBody := fmt.Sprintf(
		"<h1>Stuck Payouts</h1><p>%d payout(s) have been in processing for over 15 minutes and need manual reconciliation against the payment provider.</p>",
		len(stuckPayouts))
	go notifications.SendEmail("FundiConnect Admin", adminEmail, "Action needed: stuck instant payouts", emailBody)
}
