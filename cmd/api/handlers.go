package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"prolist/pkg/catalog"
	"prolist/pkg/consent"
	"prolist/pkg/cookie"
	"prolist/pkg/export"
	"prolist/pkg/list"
	"prolist/pkg/otel"
	"prolist/pkg/suggest"
)

// openStore rehydrates the session's list store from the request cookies.
// The consent gate and the catalog source both feed the reconciliation
// join, so the store is loaded by the time it is returned.
func openStore(w http.ResponseWriter, r *http.Request) (*list.Store, *consent.Gate) {
	jar := cookie.NewHTTPJar(w, r)
	gate := consent.Resolve(jar)

	st := list.NewStore(log, cookie.NewStore(jar, log), mutator)
	ctx := r.Context()
	st.SetConsent(ctx, gate.State())
	st.SetCatalog(ctx, source.Items(ctx))
	return st, gate
}

// listState is the client-facing snapshot of the store.
type listState struct {
	Items      []list.Item      `json:"items"`
	Quantities list.Quantities  `json:"quantities"`
	Notes      string           `json:"notes"`
	PastOrders []list.PastOrder `json:"pastOrders"`
	IsLoaded   bool             `json:"isLoaded"`
}

func writeState(w http.ResponseWriter, st *list.Store) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listState{
		Items:      st.Items(),
		Quantities: st.Quantities(),
		Notes:      st.Notes(),
		PastOrders: st.PastOrders(),
		IsLoaded:   st.Loaded(),
	})
}

// giveConsentHandler records cookie consent.
// @Summary Grant cookie consent
// @Success 204
// @Router /consent [post]
func giveConsentHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "giveConsentHandler")
	defer span.End()

	st, gate := openStore(w, r)
	gate.GiveConsent()
	st.SetConsent(r.Context(), consent.Granted)
	w.WriteHeader(http.StatusNoContent)
}

// listItemsHandler lists the catalog.
// @Summary List catalog items
// @Produce json
// @Success 200
// @Router /items [get]
func listItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listItemsHandler")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Items   []list.Item `json:"items"`
		Mutable bool        `json:"mutable"`
	}{Items: source.Items(ctx), Mutable: source.Mutable()})
}

// getListHandler returns the rehydrated list state.
// @Summary Get list state
// @Produce json
// @Success 200 {object} listState
// @Router /list [get]
func getListHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getListHandler")
	defer span.End()

	st, _ := openStore(w, r)
	writeState(w, st)
}

// updateQuantityHandler sets the quantity for one item.
// @Summary Update item quantity
// @Accept json
// @Param id path string true "Item ID"
// @Success 200 {object} listState
// @Router /list/items/{id} [put]
func updateQuantityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateQuantityHandler")
	defer span.End()

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, _ := openStore(w, r)
	st.UpdateQuantity(ctx, mux.Vars(r)["id"], req.Quantity)
	writeState(w, st)
}

// setQuantitiesHandler replaces the whole quantity mapping, as when the
// client applies an order suggestion.
// @Summary Replace all quantities
// @Accept json
// @Success 200 {object} listState
// @Router /list/quantities [put]
func setQuantitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "setQuantitiesHandler")
	defer span.End()

	var req list.Quantities
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, _ := openStore(w, r)
	st.SetQuantities(ctx, req)
	writeState(w, st)
}

// updateNotesHandler replaces the free-text notes.
// @Summary Update notes
// @Accept json
// @Success 200 {object} listState
// @Router /list/notes [put]
func updateNotesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateNotesHandler")
	defer span.End()

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, _ := openStore(w, r)
	st.UpdateNotes(ctx, req.Notes)
	writeState(w, st)
}

// saveOrderHandler snapshots the current list into the order history.
// @Summary Save current list as an order
// @Produce json
// @Success 201 {object} list.PastOrder
// @Router /list/orders [post]
func saveOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "saveOrderHandler")
	defer span.End()

	st, _ := openStore(w, r)
	order, saved := st.SaveOrder(ctx)
	w.Header().Set("Content-Type", "application/json")
	if !saved {
		json.NewEncoder(w).Encode(struct {
			Saved bool `json:"saved"`
		}{false})
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// clearListHandler empties quantities and notes, keeping the history.
// @Summary Clear list
// @Success 204
// @Router /list [delete]
func clearListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearListHandler")
	defer span.End()

	st, _ := openStore(w, r)
	st.ClearList(ctx)
	w.WriteHeader(http.StatusNoContent)
}

// exportHandler renders the list as a PDF download.
// @Summary Export list as PDF
// @Produce application/pdf
// @Success 200
// @Router /list/export [post]
func exportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "exportHandler")
	defer span.End()

	st, _ := openStore(w, r)
	doc := export.Build(st.Items(), st.Quantities(), st.Notes(), time.Now())

	var buf bytes.Buffer
	if err := export.PDF(&buf, doc); err != nil {
		log.Error(ctx, "rendering pdf", "error", err)
		http.Error(w, "could not render the list", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="ProList_Items.pdf"`)
	w.Write(buf.Bytes())
}

// suggestItemsHandler suggests items similar to those on the list.
// @Summary Suggest similar items
// @Produce json
// @Success 200
// @Router /suggest/items [post]
func suggestItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "suggestItemsHandler")
	defer span.End()

	if suggestions == nil {
		http.Error(w, "suggestions are not configured", http.StatusServiceUnavailable)
		return
	}

	st, _ := openStore(w, r)
	byID := make(map[string]string)
	for _, it := range st.Items() {
		byID[it.ID] = it.Name
	}
	var names []string
	for id := range st.Quantities() {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}

	got, err := suggestions.SimilarItems(ctx, names)
	switch {
	case errors.Is(err, suggest.ErrNoItems):
		http.Error(w, "Please select some items before asking for suggestions.", http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Error(ctx, "similar items", "error", err)
		http.Error(w, "Could not get suggestions at this time. Please try again later.", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Suggestions []string `json:"suggestions"`
	}{got})
}

// suggestOrderHandler predicts the next order from the saved history.
// @Summary Suggest an order from history
// @Produce json
// @Success 200
// @Router /suggest/order [post]
func suggestOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "suggestOrderHandler")
	defer span.End()

	if suggestions == nil {
		http.Error(w, "suggestions are not configured", http.StatusServiceUnavailable)
		return
	}

	st, _ := openStore(w, r)
	byID := make(map[string]string)
	for _, it := range st.Items() {
		byID[it.ID] = it.Name
	}

	var history []suggest.PastOrder
	for _, po := range st.PastOrders() {
		entry := suggest.PastOrder{Date: po.Date}
		for _, line := range po.Items {
			if name, ok := byID[line.ID]; ok {
				entry.Items = append(entry.Items, suggest.OrderItem{Name: name, Quantity: line.Quantity})
			}
		}
		history = append(history, entry)
	}

	got, err := suggestions.SuggestOrder(ctx, history)
	switch {
	case errors.Is(err, suggest.ErrNotEnoughHistory):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Error(ctx, "order suggestion", "error", err)
		http.Error(w, "Could not get a suggestion at this time. Please try again later.", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		SuggestedOrder []suggest.OrderItem `json:"suggestedOrder"`
	}{got})
}

// adminLoginHandler authenticates the admin and creates a Redis session.
// @Summary Admin login
// @Accept json
// @Success 200
// @Router /admin/login [post]
func adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "adminLoginHandler")
	defer span.End()

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
		return
	}
	if adminPassword == "" || req.Password != adminPassword {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	sid := uuid.NewString()
	if err := redisClient.Set(ctx, "session:"+sid, "admin", time.Hour).Err(); err != nil {
		log.Error(ctx, "create session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "admin_session", Value: sid, Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// adminAuthMiddleware ensures a valid admin session exists.
func adminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("admin_session")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		who, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || who == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// addItemHandler appends an item to the master catalog.
// @Summary Add catalog item
// @Accept json
// @Produce json
// @Success 201 {object} list.Item
// @Router /admin/items [post]
func addItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItemHandler")
	defer span.End()

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, _ := openStore(w, r)
	item, err := st.AddItem(ctx, req.Name)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// deleteItemHandler removes an item from the master catalog.
// @Summary Delete catalog item
// @Param id path string true "Item ID"
// @Success 204
// @Router /admin/items/{id} [delete]
func deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteItemHandler")
	defer span.End()

	st, _ := openStore(w, r)
	if err := st.DeleteItem(ctx, mux.Vars(r)["id"]); err != nil {
		writeCatalogError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, list.ErrImmutableCatalog):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, catalog.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrEmptyName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
