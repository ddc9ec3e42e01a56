package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/service"
)

func (h *Handlers) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RentalFilter{
		CustomerID: q.Get("customer_id"),
		Statuses:   parseStatuses(q.Get("status")),
		Search:     q.Get("search"),
	}
	rentals, err := h.services.Rental.ListRentals(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// CreateRental places an order. It merges into the customer's open rental
// when one exists.
func (h *Handlers) CreateRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expected, err := parseOptionalDate("expected_return_date", req.ExpectedReturnDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order := service.NewOrder{
		CustomerID:         req.CustomerID,
		ExpectedReturnDate: expected,
		Notes:              req.Notes,
		AdvancePayment:     req.AdvancePayment,
		Lines:              toOrderLines(req.Items),
	}
	if start != nil {
		order.StartDate = *start
	}

	rental, err := h.services.Rental.CreateRental(r.Context(), order)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "Rental order placed", "rentalID", rental.ID, "customerID", rental.CustomerID)
	writeJSON(w, http.StatusCreated, rental)
}

func (h *Handlers) GetRental(w http.ResponseWriter, r *http.Request) {
	rental, err := h.services.Rental.GetRental(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *Handlers) DeleteRental(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Rental.DeleteRental(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UpdateRentalStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	rental, err := h.services.Rental.UpdateStatus(r.Context(), mux.Vars(r)["id"], domain.RentalStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *Handlers) ReturnItems(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeReturn(w, r)
	if !ok {
		return
	}
	res, err := h.services.Rental.ReturnItems(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "Return processed", "rentalID", req.RentalID, "invoiceID", res.Invoice.ID)
	writeJSON(w, http.StatusOK, newReturnResponse(res, true))
}

// QuoteReturn prices a return without saving it
func (h *Handlers) QuoteReturn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeReturn(w, r)
	if !ok {
		return
	}
	res, err := h.services.Rental.QuoteReturn(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newReturnResponse(res, false))
}

func (h *Handlers) decodeReturn(w http.ResponseWriter, r *http.Request) (service.ReturnRequest, bool) {
	var body returnRequest
	if !h.decodeAndValidate(w, r, &body) {
		return service.ReturnRequest{}, false
	}
	date, err := parseOptionalDate("return_date", body.ReturnDate)
	if err != nil {
		writeError(w, r, err)
		return service.ReturnRequest{}, false
	}
	req := service.ReturnRequest{
		RentalID:       mux.Vars(r)["id"],
		Lines:          toReturnLines(body.Items),
		Discount:       body.Discount,
		ReceivedAmount: body.ReceivedAmount,
		CreatedBy:      operator(r),
	}
	if date != nil {
		req.ReturnDate = *date
	}
	return req, true
}
