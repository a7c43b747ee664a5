package request

type UpdateProfileRequest struct {
	FirstName                   *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName                    *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone                       *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	DateOfBirth                 *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PreferredLanguage           *string `json:"preferred_language,omitempty" validate:"omitempty,oneof=en es fr"`
	ReceiveMarketingEmails      *bool   `json:"receive_marketing_emails,omitempty"`
	ReceiveBookingNotifications *bool   `json:"receive_booking_notifications,omitempty"`
}
