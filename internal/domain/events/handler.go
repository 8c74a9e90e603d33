package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"creature-registry/internal/domain/creatures"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/events", listEventsHandler(svc))
}

// eventResponse representa un evento del registro devuelto por la API.
type eventResponse struct {
	ID         string              `json:"id"`
	Seq        int64               `json:"seq"`
	Kind       creatures.EventKind `json:"kind" enums:"Created,Transferred"`
	Account    string              `json:"account"`
	To         string              `json:"to,omitempty"`
	CreatureID creatures.ID        `json:"creature_id"`
	RecordedAt time.Time           `json:"recorded_at"`
}

// listEventsHandler godoc
// @Summary Listar eventos del registro
// @Description Devuelve los eventos Created/Transferred, del más reciente al más viejo.
// @Tags events
// @Produce json
// @Param account query string false "Solo eventos donde la cuenta es emisor o receptor"
// @Param creature_id query int false "Solo eventos de esta criatura"
// @Param limit query int false "Máximo de eventos a devolver (1-200). Por defecto 50"
// @Success 200 {array} eventResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 500 {string} string "internal error"
// @Router /events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toEventResponse(rec))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{Account: strings.TrimSpace(q.Get("account"))}

	if v := strings.TrimSpace(q.Get("creature_id")); v != "" {
		id, err := creatures.ParseID(v)
		if err != nil {
			return ListFilter{}, errors.New("creature_id must be a non-negative integer")
		}
		f.CreatureID = &id
	}

	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return ListFilter{}, errors.New("limit must be between 1 and 200")
		}
		f.Limit = n
	}

	return f, nil
}

func toEventResponse(rec Record) eventResponse {
	return eventResponse{
		ID:         rec.ID,
		Seq:        rec.Seq,
		Kind:       rec.Kind,
		Account:    rec.Account,
		To:         rec.To,
		CreatureID: rec.CreatureID,
		RecordedAt: rec.RecordedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
