package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	config "github.com/otienobrian/fundi_connect/configs"
	"github.com/otienobrian/fundi_connect/models"
	"github.com/otienobrian/fundi_connect/money"
	"github.com/otienobrian/fundi_connect/payments"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoPayoutAccount  = errors.New("no payout account on file")
	ErrPayoutsDisabled  = errors.New("payout account is not enabled for payouts")
	ErrNothingToCashOut = errors.New("nothing to cash out")
	ErrBelowMinimum     = errors.New("amount is below the minimum cash out")
	ErrNetNotPositive   = errors.New("net amount after fees is not positive")
)

// ProcessInstantPayout settles a fundi's cashable earnings through the
// payment provider.
//
// The Payout row is created in "processing" before the provider is called so
// every attempt is auditable even if the call never returns. Entries are
// marked paid out only after the provider confirms the transfer, and the
// marking UPDATE re-checks that no other payout claimed them in the
// meantime. A failed transfer finalizes the Payout as failed and leaves
// every entry untouched and eligible for a retry.
func ProcessInstantPayout(db *gorm.DB, client payments.TransferClient, fundiUserID uuid.UUID, now time.Time) (*models.Payout, error) {
	var fundi models.Fundi
	if err := db.Where("user_id = ?", fundiUserID).First(&fundi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPayoutAccount
		}
		return nil, err
	}
	if fundi.PayoutAccountID == nil || *fundi.PayoutAccountID == "" {
		return nil, ErrNoPayoutAccount
	}
	if !fundi.PayoutsEnabled {
		return nil, ErrPayoutsDisabled
	}

	var earnings []models.Earning
	err := db.Where(
		"fundi_id = ? AND payout_id IS NULL AND (status = ? OR (status = ? AND available_at <= ?))",
		fundiUserID, models.EarningStatusAvailable, models.EarningStatusPending, now,
	).Find(&earnings).Error
	if err != nil {
		return nil, err
	}
	if len(earnings) == 0 {
		return nil, ErrNothingToCashOut
	}

	var grossCents int64
	earningIDs := make([]uuid.UUID, 0, len(earnings))
	for _, e := range earnings {
		grossCents += e.AmountCents
		earningIDs = append(earningIDs, e.ID)
	}

	minimum := config.ConfigInt64("INSTANT_PAYOUT_MINIMUM_CENTS", 100)
	if grossCents < minimum {
		return nil, ErrBelowMinimum
	}

	feeRate := config.ConfigFloat("INSTANT_PAYOUT_FEE_RATE", 0.015)
	feeFloor := config.ConfigInt64("INSTANT_PAYOUT_FEE_FLOOR_CENTS", 50)
	feeCents := money.FeeWithFloor(grossCents, feeRate, feeFloor)
	netCents := grossCents - feeCents
	if netCents <= 0 {
		return nil, ErrNetNotPositive
	}

	payout := models.Payout{
		FundiID:      fundiUserID,
		GrossCents:   grossCents,
		FeeCents:     feeCents,
		NetCents:     netCents,
		EarningCount: len(earnings),
		Status:       models.PayoutStatusProcessing,
	}
	if err := db.Create(&payout).Error; err != nil {
		return nil, err
	}

	transferID, err := client.CreateTransfer(*fundi.PayoutAccountID, netCents, payout.ID.String())
	if err != nil {
		reason := err.Error()
		payout.Status = models.PayoutStatusFailed
		payout.FailureReason = &reason
		if saveErr := db.Save(&payout).Error; saveErr != nil {
			log.Printf("🔥 Failed to record failed payout %s: %v", payout.ID, saveErr)
		}
		return &payout, fmt.Errorf("transfer failed: %w", err)
	}

	payout.Status = models.PayoutStatusCompleted
	payout.TransferID = &transferID
	payout.CompletedAt = &now
	if err := db.Save(&payout).Error; err != nil {
		// The transfer went through; the audit row stays "processing" for
		// the reconciliation sweep to settle.
		return &payout, fmt.Errorf("transfer %s succeeded but payout could not be finalized: %w", transferID, err)
	}

	res := db.Model(&models.Earning{}).
		Where("id IN ? AND payout_id IS NULL", earningIDs).
		Updates(map[string]interface{}{
			"status":      models.EarningStatusPaidOut,
			"payout_id":   payout.ID,
			"paid_out_at": now,
		})
	if res.Error != nil {
		return &payout, fmt.Errorf("transfer %s succeeded but earnings could not be marked: %w", transferID, res.Error)
	}
	if res.RowsAffected != int64(len(earningIDs)) {
		log.Printf("🔥 Payout %s settled %d of %d earnings; remainder was claimed concurrently", payout.ID, res.RowsAffected, len(earningIDs))
	}

	return &payout, nil
}
