// Package http provides the REST routing layer. Handlers do no business
// validation: they decode the request, read the authenticated user id from the
// X-User-ID header set by the upstream gateway, call the service and map
// domain error kinds onto status codes.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"kioskrent-backend/internal/service"
)

// NewRouter wires every API route to its handler
func NewRouter(
	rentals service.RentalService,
	payments service.PaymentService,
	lockers service.LockerService,
	notes service.NotificationService,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(Logging)
	r.Use(Recovery)

	rentalHandler := NewRentalHandler(rentals)
	kioskHandler := NewKioskHandler(rentals, lockers)
	paymentHandler := NewPaymentHandler(payments)
	notificationHandler := NewNotificationHandler(notes)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api.HandleFunc("/rentals", rentalHandler.Create).Methods("POST")
	api.HandleFunc("/rentals", rentalHandler.List).Methods("GET")
	api.HandleFunc("/rentals/{id}", rentalHandler.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}/cancel", rentalHandler.Cancel).Methods("POST")

	api.HandleFunc("/kiosk/deposit", kioskHandler.Deposit).Methods("POST")
	api.HandleFunc("/kiosk/claim", kioskHandler.Claim).Methods("POST")
	api.HandleFunc("/kiosk/return", kioskHandler.Return).Methods("POST")
	api.HandleFunc("/kiosk/lockers", kioskHandler.ListLockers).Methods("GET")

	api.HandleFunc("/payments", paymentHandler.Create).Methods("POST")
	api.HandleFunc("/payments", paymentHandler.List).Methods("GET")
	api.HandleFunc("/payments/confirm", paymentHandler.Confirm).Methods("POST")
	api.HandleFunc("/payments/{id}/refund", paymentHandler.Refund).Methods("POST")

	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("POST")

	return r
}
