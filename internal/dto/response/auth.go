package response

import (
	"time"

	"lumo-api/internal/data/entity"
)

type AuthResponse struct {
	UserID           string          `json:"user_id"`
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Role             entity.UserRole `json:"role"`
	AccessToken      string          `json:"access_token"`
	AccessExpiresAt  time.Time       `json:"access_expires_at"`
	RefreshToken     string          `json:"refresh_token"`
	RefreshExpiresAt time.Time       `json:"refresh_expires_at"`
}

type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      entity.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

type ProfileResponse struct {
	UserResponse
	Phone                       *string `json:"phone,omitempty"`
	DateOfBirth                 *string `json:"date_of_birth,omitempty"`
	PreferredLanguage           string  `json:"preferred_language"`
	ReceiveMarketingEmails      bool    `json:"receive_marketing_emails"`
	ReceiveBookingNotifications bool    `json:"receive_booking_notifications"`
	LoyaltyPoints               int     `json:"loyalty_points"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func ProfileToResponse(user *entity.User, customer *entity.Customer) ProfileResponse {
	resp := ProfileResponse{
		UserResponse: UserToResponse(user),
	}

	if customer != nil {
		resp.Phone = customer.Phone
		resp.PreferredLanguage = string(customer.PreferredLanguage)
		resp.ReceiveMarketingEmails = customer.ReceiveMarketingEmails
		resp.ReceiveBookingNotifications = customer.ReceiveBookingNotifications
		resp.LoyaltyPoints = customer.LoyaltyPoints
		if customer.DateOfBirth != nil {
			dob := customer.DateOfBirth.Format("2006-01-02")
			resp.DateOfBirth = &dob
		}
	}

	return resp
}
