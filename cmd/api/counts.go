package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"stockcount/pkg/count"
	"stockcount/pkg/otel"
)

// countRequest sets the quantity of an EAN. Qty accepts a JSON number or
// a numeric string.
type countRequest struct {
	EAN string `json:"ean"`
	Qty any    `json:"qtd" swaggertype:"string"`
}

func rawQty(v any) string {
	switch q := v.(type) {
	case nil:
		return ""
	case string:
		return q
	case float64:
		return strconv.FormatFloat(q, 'f', -1, 64)
	}
	return "invalid"
}

// listCountsHandler lists counted items.
// @Summary List counted items
// @Description Items are ordered by EAN.
// @Produce json
// @Success 200 {array} count.Item
// @Router /counts [get]
func (a *api) listCountsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "listCountsHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, a.counts.Items())
}

// getCountHandler retrieves one counted item.
// @Summary Get counted item
// @Produce json
// @Param ean path string true "EAN"
// @Success 200 {object} count.Item
// @Router /counts/{ean} [get]
func (a *api) getCountHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getCountHandler")
	defer span.End()

	it, ok := a.counts.Get(mux.Vars(r)["ean"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// createCountHandler sets the quantity of an EAN, replacing any previous one.
// @Summary Set item quantity
// @Accept json
// @Produce json
// @Param item body countRequest true "Item"
// @Success 200 {object} count.Item
// @Failure 400 {object} errorResponse
// @Router /counts [post]
func (a *api) createCountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createCountHandler")
	defer span.End()

	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	span.SetAttributes(attribute.String("ean", req.EAN))
	it, err := a.counts.Set(ctx, req.EAN, rawQty(req.Qty))
	if err != nil {
		a.writeError(w, r, "set count", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// updateCountHandler sets the quantity of the EAN in the path.
// @Summary Set item quantity by EAN
// @Accept json
// @Produce json
// @Param ean path string true "EAN"
// @Param item body countRequest true "Quantity"
// @Success 200 {object} count.Item
// @Failure 400 {object} errorResponse
// @Router /counts/{ean} [put]
func (a *api) updateCountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateCountHandler")
	defer span.End()

	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	it, err := a.counts.Set(ctx, mux.Vars(r)["ean"], rawQty(req.Qty))
	if err != nil {
		a.writeError(w, r, "set count", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// deleteCountHandler removes an EAN. Unknown EANs are not an error.
// @Summary Delete counted item
// @Param ean path string true "EAN"
// @Success 204
// @Router /counts/{ean} [delete]
func (a *api) deleteCountHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteCountHandler")
	defer span.End()

	if err := a.counts.Remove(ctx, mux.Vars(r)["ean"]); err != nil {
		a.writeError(w, r, "delete count", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clearCountsHandler empties the counting list.
// @Summary Clear counting list
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 400 {object} errorResponse
// @Router /counts [delete]
func (a *api) clearCountsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCountsHandler")
	defer span.End()

	if !confirmed(w, r) {
		return
	}
	if err := a.counts.Clear(ctx); err != nil {
		a.writeError(w, r, "clear counts", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportCountsHandler downloads the counting list as CSV.
// @Summary Export counting list
// @Produce text/csv
// @Success 200 {string} string "EAN;QTD; rows"
// @Router /export/counts [get]
func (a *api) exportCountsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "exportCountsHandler")
	defer span.End()

	a.writeCSV(w, count.FilePrefix, a.counts.ExportRows())
}
