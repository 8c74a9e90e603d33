package creatures

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"creature-registry/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/creatures", func(cr chi.Router) {
		cr.Post("/", createCreatureHandler(svc))
		cr.Get("/", listMyCreaturesHandler(svc))
		cr.Get("/count", countHandler(svc))
		cr.Post("/breed", breedHandler(svc))

		cr.Get("/{creatureID}", getCreatureHandler(svc))
		cr.Get("/{creatureID}/lineage", lineageHandler(svc))
		cr.Post("/{creatureID}/transfer", transferHandler(svc))
	})

	r.Get("/accounts/{accountID}/creatures", listAccountCreaturesHandler(svc))
}

// creatureResponse representa una criatura registrada.
type creatureResponse struct {
	ID        ID               `json:"id"`
	DNA       DNA              `json:"dna" swaggertype:"string" example:"0a1b2c3d4e5f60718293a4b5c6d7e8f9"`
	Owner     string           `json:"owner"`
	Parents   *parentsResponse `json:"parents,omitempty"`
	Children  []ID             `json:"children"`
	Partners  []ID             `json:"partners"`
	CreatedAt time.Time        `json:"created_at"`
}

type parentsResponse struct {
	First  ID `json:"first"`
	Second ID `json:"second"`
}

type lineageResponse struct {
	ID       ID               `json:"id"`
	Parents  *parentsResponse `json:"parents,omitempty"`
	Children []ID             `json:"children"`
	Partners []ID             `json:"partners"`
	Siblings []ID             `json:"siblings"`
}

type transferRequest struct {
	To string `json:"to"`
}

type breedRequest struct {
	Parent1ID *ID `json:"parent1_id"`
	Parent2ID *ID `json:"parent2_id"`
}

type countResponse struct {
	Count ID `json:"count"`
}

// createCreatureHandler godoc
// @Summary Crear criatura génesis
// @Description Reserva el stake en la cuenta del llamador y registra una criatura con DNA aleatorio. Autenticación: `X-Debug-Account-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags creatures
// @Produce json
// @Param X-Debug-Account-ID header string false "Solo en modo dev, cuenta del llamador"
// @Param Authorization header string false "Bearer token en producción"
// @Success 201 {object} creatureResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {string} string "insufficient funds"
// @Failure 409 {string} string "creature id space exhausted"
// @Failure 500 {string} string "internal error"
// @Router /creatures [post]
func createCreatureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := middleware.Account(r.Context())
		if account == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		c, err := svc.Create(r.Context(), account)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toCreatureResponse(c))
	}
}

// transferHandler godoc
// @Summary Transferir criatura
// @Description Pasa la criatura del llamador a otra cuenta. El receptor reserva stake y el emisor recupera el suyo.
// @Tags creatures
// @Accept json
// @Produce json
// @Param X-Debug-Account-ID header string false "Solo en modo dev, cuenta del llamador"
// @Param Authorization header string false "Bearer token en producción"
// @Param creatureID path int true "ID de la criatura"
// @Param payload body transferRequest true "Cuenta receptora"
// @Success 200 {object} creatureResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {string} string "insufficient funds"
// @Failure 403 {string} string "not owner"
// @Failure 404 {string} string "unknown creature"
// @Router /creatures/{creatureID}/transfer [post]
func transferHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := middleware.Account(r.Context())
		if account == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := ParseID(chi.URLParam(r, "creatureID"))
		if err != nil {
			http.Error(w, "invalid creature id", http.StatusBadRequest)
			return
		}

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.To) == "" {
			http.Error(w, "to is required", http.StatusBadRequest)
			return
		}

		c, err := svc.Transfer(r.Context(), account, req.To, id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCreatureResponse(c))
	}
}

// breedHandler godoc
// @Summary Cruzar dos criaturas
// @Description Combina el DNA de dos criaturas existentes y registra la cría a nombre del llamador. No exige ser dueño de los padres.
// @Tags creatures
// @Accept json
// @Produce json
// @Param X-Debug-Account-ID header string false "Solo en modo dev, cuenta del llamador"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body breedRequest true "IDs de los padres"
// @Success 201 {object} creatureResponse
// @Failure 400 {string} string "invalid json / parent ids required"
// @Failure 401 {string} string "unauthorized"
// @Failure 402 {string} string "insufficient funds"
// @Failure 404 {string} string "invalid parent"
// @Failure 409 {string} string "creature id space exhausted"
// @Failure 422 {string} string "same parent"
// @Router /creatures/breed [post]
func breedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := middleware.Account(r.Context())
		if account == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req breedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Parent1ID == nil || req.Parent2ID == nil {
			http.Error(w, "parent1_id and parent2_id are required", http.StatusBadRequest)
			return
		}

		c, err := svc.Breed(r.Context(), account, *req.Parent1ID, *req.Parent2ID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toCreatureResponse(c))
	}
}

// getCreatureHandler godoc
// @Summary Obtener criatura
// @Tags creatures
// @Produce json
// @Param creatureID path int true "ID de la criatura"
// @Success 200 {object} creatureResponse
// @Failure 400 {string} string "invalid creature id"
// @Failure 404 {string} string "creature not found"
// @Router /creatures/{creatureID} [get]
func getCreatureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(chi.URLParam(r, "creatureID"))
		if err != nil {
			http.Error(w, "invalid creature id", http.StatusBadRequest)
			return
		}

		c, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCreatureResponse(c))
	}
}

// lineageHandler godoc
// @Summary Genealogía de una criatura
// @Description Padres, hijos, parejas y hermanos (hijos de cualquiera de los padres, sin repetir).
// @Tags creatures
// @Produce json
// @Param creatureID path int true "ID de la criatura"
// @Success 200 {object} lineageResponse
// @Failure 400 {string} string "invalid creature id"
// @Failure 404 {string} string "creature not found"
// @Router /creatures/{creatureID}/lineage [get]
func lineageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(chi.URLParam(r, "creatureID"))
		if err != nil {
			http.Error(w, "invalid creature id", http.StatusBadRequest)
			return
		}

		l, err := svc.Lineage(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, lineageResponse{
			ID:       l.ID,
			Parents:  toParentsResponse(l.Parents),
			Children: l.Children,
			Partners: l.Partners,
			Siblings: l.Siblings,
		})
	}
}

// listMyCreaturesHandler godoc
// @Summary Listar mis criaturas
// @Tags creatures
// @Produce json
// @Param X-Debug-Account-ID header string false "Solo en modo dev, cuenta del llamador"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} creatureResponse
// @Failure 401 {string} string "unauthorized"
// @Router /creatures [get]
func listMyCreaturesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := middleware.Account(r.Context())
		if account == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeOwned(w, r, svc, account)
	}
}

// listAccountCreaturesHandler godoc
// @Summary Listar criaturas de una cuenta
// @Description Devuelve las criaturas de la cuenta en el orden del índice de dueños.
// @Tags creatures
// @Produce json
// @Param accountID path string true "Cuenta"
// @Success 200 {array} creatureResponse
// @Router /accounts/{accountID}/creatures [get]
func listAccountCreaturesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOwned(w, r, svc, chi.URLParam(r, "accountID"))
	}
}

// countHandler godoc
// @Summary Cantidad de criaturas registradas
// @Tags creatures
// @Produce json
// @Success 200 {object} countResponse
// @Router /creatures/count [get]
func countHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Count(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, countResponse{Count: n})
	}
}

func writeOwned(w http.ResponseWriter, r *http.Request, svc *Service, account string) {
	items, err := svc.ListByOwner(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]creatureResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCreatureResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// StatusFor traduce un error del registro a un status HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownAsset), errors.Is(err, ErrInvalidParent):
		return http.StatusNotFound
	case errors.Is(err, ErrSameParent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func toCreatureResponse(c Creature) creatureResponse {
	return creatureResponse{
		ID:        c.ID,
		DNA:       c.DNA,
		Owner:     c.Owner,
		Parents:   toParentsResponse(c.Parents),
		Children:  nonNil(c.Children),
		Partners:  nonNil(c.Partners),
		CreatedAt: c.CreatedAt,
	}
}

func toParentsResponse(p *Parents) *parentsResponse {
	if p == nil {
		return nil
	}
	return &parentsResponse{First: p.First, Second: p.Second}
}

// writeJSON está duplicado en los handlers de cada módulo (creatures/events),
// igual que antes: todavía no justifica un paquete compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
