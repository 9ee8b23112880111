package utils

import (
	"math/rand"
	"time"

	"github.com/otienobrian/fundi_connect/models"
	"gorm.io/gorm"
)

const referenceLength = 8
const letterBytes = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateUniqueReference produces the human-facing booking reference
// printed on receipts and used in support conversations (e.g. "FC-7KQ2M9XR").
func GenerateUniqueReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, referenceLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		code := "FC-" + string(b)

		var request models.ServiceRequest
		err := tx.Where("reference = ?", code).First(&request).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
