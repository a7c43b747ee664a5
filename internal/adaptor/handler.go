package adaptor

import (
	"net/http"

	"lumo-api/internal/dto/request"
	"lumo-api/internal/usecase"
	"lumo-api/pkg/apperror"
	"lumo-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Movie    *MovieHandler
	Showtime *ShowtimeHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Chat     *ChatHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Profile:  NewProfileHandler(service.Profile, log),
		Movie:    NewMovieHandler(service.Movie, log),
		Showtime: NewShowtimeHandler(service.Showtime, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, log),
		Chat:     NewChatHandler(service.Chat, log),
	}
}

// respondError logs the failure and writes the status mapped from the error
// kind. Unexpected errors log at error level, business rejections at warn.
func respondError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch apperror.KindOf(err) {
	case apperror.KindInternal, apperror.KindUpstreamFailure, apperror.KindUpstreamTimeout:
		log.Error("Failed to "+operation, zap.Error(err))
	default:
		log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("code", apperror.CodeOf(err)),
		)
	}
	utils.ResponseError(w, err)
}

// parsePagination reads page and per_page, defaulting to the first page of twenty.
func parsePagination(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 20),
	}
}

// userIDFromRequest pulls the authenticated user out of the request context,
// answering 401 itself when the middleware did not put one there.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
