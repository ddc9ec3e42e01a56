package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.services.Customer.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	customer := req.toDomain("")
	if err := h.services.Customer.CreateCustomer(r.Context(), customer); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.services.Customer.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomer edits contact details. Tier, spend and debt are derived and
// ignored if sent.
func (h *Handlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	customer, err := h.services.Customer.UpdateCustomer(r.Context(), req.toDomain(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Customer.DeleteCustomer(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.services.Customer.GetLedger(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) SettleDebt(w http.ResponseWriter, r *http.Request) {
	var req settleDebtRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	customer, err := h.services.Customer.SettleDebt(r.Context(), mux.Vars(r)["id"], req.Amount, operator(r), req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handlers) ListDebtors(w http.ResponseWriter, r *http.Request) {
	summary, err := h.services.Customer.ListDebtors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
