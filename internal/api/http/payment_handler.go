package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/service"
)

// PaymentHandler exposes payment creation, the gateway confirmation webhook
// and refunds
type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	RentalID    string `json:"rental_id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
}

type createPaymentResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
	CheckoutURL string              `json:"checkout_url"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tx, checkoutURL, err := h.payments.CreatePayment(r.Context(), uid, req.RentalID, domain.TransactionType(req.Type), req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createPaymentResponse{Transaction: tx, CheckoutURL: checkoutURL})
}

type confirmPaymentRequest struct {
	TransactionID     string `json:"transaction_id"`
	ExternalReference string `json:"external_reference"`
}

// Confirm is the gateway webhook. It carries no user identity and is
// idempotent: replays return the settled transaction unchanged.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tx, err := h.payments.ConfirmPayment(r.Context(), req.TransactionID, req.ExternalReference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	refund, err := h.payments.RefundPayment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, refund)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
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

	txs, total, err := h.payments.ListTransactions(r.Context(), uid,
		domain.TransactionStatus(q.Get("status")), domain.TransactionType(q.Get("type")), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, listResponse{Items: txs, Total: total, Page: page})
}
