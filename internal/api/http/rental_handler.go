package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/service"
)

// RentalHandler exposes the rental lifecycle over REST
type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type createRentalRequest struct {
	ItemID    string `json:"item_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createRentalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, domain.Validation("start_date must be RFC 3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, domain.Validation("end_date must be RFC 3339"))
		return
	}

	rental, err := h.rentals.RequestRental(r.Context(), uid, req.ItemID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

type listResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rentals, total, err := h.rentals.ListRentals(r.Context(), uid, q.Get("type"), domain.RentalStatus(q.Get("status")), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: rentals, Total: total, Page: page})
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	detail, err := h.rentals.GetRental(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	rental, err := h.rentals.CancelRental(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
