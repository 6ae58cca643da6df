// FILE: bistrolog/src/internal/app/routes.go
package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bistrolog/src/internal/perf"

	"github.com/lixenwraith/log"
)

// App is the demo restaurant application whose traffic feeds the logging
// pipeline. Handlers serve canned data; their purpose is to generate
// realistic access, event, and error telemetry.
type App struct {
	perf   *perf.Manager
	logger *log.Logger
}

func New(pm *perf.Manager, logger *log.Logger) *App {
	return &App{perf: pm, logger: logger}
}

type menuItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

var menu = []menuItem{
	{ID: 1, Name: "Margherita", Price: 11.50, Category: "pizza"},
	{ID: 2, Name: "Quattro Stagioni", Price: 14.00, Category: "pizza"},
	{ID: 3, Name: "Carbonara", Price: 13.00, Category: "pasta"},
	{ID: 4, Name: "Lasagne", Price: 12.50, Category: "pasta"},
	{ID: 5, Name: "Tiramisu", Price: 6.50, Category: "dessert"},
	{ID: 6, Name: "Panna Cotta", Price: 6.00, Category: "dessert"},
	{ID: 7, Name: "House Red", Price: 5.50, Category: "drinks"},
}

// Handler builds the route table.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.handleHome)
	mux.HandleFunc("/menu", a.handleMenu)
	mux.HandleFunc("/menu/", a.handleMenuItem)
	mux.HandleFunc("/search", a.handleSearch)
	mux.HandleFunc("/reservations", a.handleReservations)
	mux.HandleFunc("/orders", a.handleOrders)
	mux.HandleFunc("/health", a.handleHealth)
	mux.HandleFunc("/telemetry/analytics", a.handleAnalytics)
	return mux
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Trattoria Bistrolog",
		"message": "benvenuti",
	})
}

func (a *App) handleMenu(w http.ResponseWriter, r *http.Request) {
	a.perf.LogUserAction("view_menu", "menu", "", map[string]any{
		"item_count": len(menu),
	})
	writeJSON(w, http.StatusOK, map[string]any{"items": menu})
}

func (a *App) handleMenuItem(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/menu/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid menu item id", http.StatusBadRequest)
		return
	}
	for _, item := range menu {
		if item.ID == id {
			a.perf.LogUserAction("view_item", fmt.Sprintf("menu-item-%d", id), "", nil)
			writeJSON(w, http.StatusOK, item)
			return
		}
	}
	http.Error(w, "menu item not found", http.StatusNotFound)
}

func (a *App) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := []menuItem{}
	if query != "" {
		needle := strings.ToLower(query)
		for _, item := range menu {
			if strings.Contains(strings.ToLower(item.Name), needle) || strings.EqualFold(item.Category, query) {
				results = append(results, item)
			}
		}
	}
	a.perf.LogUserAction("search", "search-box", "", map[string]any{
		"query":        query,
		"result_count": len(results),
	})
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "results": results})
}

func (a *App) handleReservations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		PartySize int    `json:"party_size"`
		Time      string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid reservation payload", http.StatusBadRequest)
		return
	}
	if body.PartySize < 1 || body.PartySize > 12 {
		http.Error(w, "party size must be between 1 and 12", http.StatusUnprocessableEntity)
		return
	}
	a.perf.LogUserAction("create_reservation", "reservation-form", "", map[string]any{
		"party_size": body.PartySize,
		"time":       body.Time,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"status": "confirmed"})
}

func (a *App) handleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Items []struct {
			ID  int `json:"id"`
			Qty int `json:"qty"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Items) == 0 {
		http.Error(w, "order must contain at least one item", http.StatusBadRequest)
		return
	}
	a.perf.LogUserAction("place_order", "order-form", "", map[string]any{
		"item_count": len(body.Items),
	})
	writeJSON(w, http.StatusCreated, map[string]any{"status": "accepted"})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *App) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.perf.Analytics())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
