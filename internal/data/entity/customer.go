package entity

import (
	"time"

	"github.com/google/uuid"
)

type PreferredLanguage string

const (
	LanguageEnglish PreferredLanguage = "en"
	LanguageSpanish PreferredLanguage = "es"
	LanguageFrench  PreferredLanguage = "fr"
)

// Customer is the profile extension of a user account. Registration
// creates one, but reads still go through get-or-create for accounts
// seeded outside the API.
type Customer struct {
	Base
	UserID                      uuid.UUID         `db:"user_id"`
	Phone                       *string           `db:"phone"`
	DateOfBirth                 *time.Time        `db:"date_of_birth"`
	PreferredLanguage           PreferredLanguage `db:"preferred_language"`
	ReceiveMarketingEmails      bool              `db:"receive_marketing_emails"`
	ReceiveBookingNotifications bool              `db:"receive_booking_notifications"`
	LoyaltyPoints               int               `db:"loyalty_points"`
}
