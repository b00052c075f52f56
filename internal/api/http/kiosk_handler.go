package http

import (
	"net/http"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/service"
)

// KioskHandler exposes the physical handoff operations a kiosk terminal calls
type KioskHandler struct {
	rentals service.RentalService
	lockers service.LockerService
}

func NewKioskHandler(rentals service.RentalService, lockers service.LockerService) *KioskHandler {
	return &KioskHandler{rentals: rentals, lockers: lockers}
}

type depositRequest struct {
	RentalID string `json:"rental_id"`
	LockerID string `json:"locker_id"`
}

func (h *KioskHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req depositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.rentals.DepositItem(r.Context(), uid, req.RentalID, req.LockerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type claimRequest struct {
	RentalID string `json:"rental_id"`
}

func (h *KioskHandler) Claim(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.rentals.ClaimItem(r.Context(), uid, req.RentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type returnRequest struct {
	RentalID string   `json:"rental_id"`
	LockerID string   `json:"locker_id"`
	Images   []string `json:"images"`
}

func (h *KioskHandler) Return(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req returnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	detail, err := h.rentals.ReturnItem(r.Context(), uid, req.RentalID, req.LockerID, req.Images)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *KioskHandler) ListLockers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	q := r.URL.Query()
	lockers, err := h.lockers.ListAvailableLockers(r.Context(), q.Get("kiosk_id"), domain.LockerSize(q.Get("size")))
	if err != nil {
		writeError(w, err)
		return
	}
	if lockers == nil {
		lockers = []domain.Locker{}
	}
	writeJSON(w, http.StatusOK, lockers)
}
