package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalshop-backend/internal/domain"
)

func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseOptionalDate("from", q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseOptionalDate("to", q.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	invoices, err := h.services.Invoice.ListInvoices(r.Context(), domain.InvoiceFilter{
		Search:     q.Get("search"),
		From:       from,
		To:         to,
		CustomerID: q.Get("customer_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.services.Invoice.GetInvoice(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// Revenue groups invoice totals by day, week or month. timeframe=custom
// requires from and to.
func (h *Handlers) Revenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	timeframe := domain.RevenueTimeframe(q.Get("timeframe"))
	if timeframe == "" {
		timeframe = domain.RevenueMonthly
	}
	from, err := parseOptionalDate("from", q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseOptionalDate("to", q.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.services.Report.Revenue(r.Context(), timeframe, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.services.Report.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
