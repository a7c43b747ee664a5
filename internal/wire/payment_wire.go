package wire

import (
	"lumo-api/internal/adaptor"
	"lumo-api/pkg/middleware"
	"lumo-api/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	tokens *token.Manager,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, log))

		r.Post("/api/v1/payments", paymentHandler.CreatePayment)
		r.Get("/api/v1/payments", paymentHandler.GetUserPayments)
		r.Get("/api/v1/payments/{id}", paymentHandler.GetPaymentByID)
	})
}
