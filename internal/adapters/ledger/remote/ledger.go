// Package remote implementa el ledger de stake contra un servicio de saldos externo.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creature-registry/internal/platform/httpclient"
	"creature-registry/internal/platform/logger"
	"creature-registry/internal/ports/ledger"

	"github.com/google/uuid"
)

var (
	ErrNotConfigured = errors.New("ledger client not configured")
	ErrUpstream      = errors.New("ledger upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Ledger reserva y libera stake llamando al servicio de saldos.
// Cada operación lleva un request_id propio que se repite en sus reintentos,
// así el servicio aplica una sola vez aunque se pierda una respuesta.
type Ledger struct {
	http *httpclient.Client
	log  logger.Logger
}

func New(cfg Config, log logger.Logger) (*Ledger, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	if log == nil {
		log = logger.Nop()
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{h: strings.TrimSpace(cfg.APIKey)},
	})
	if err != nil {
		return nil, err
	}

	return &Ledger{
		http: hc,
		log:  log.With(map[string]any{"component": "ledger"}),
	}, nil
}

var _ ledger.StakeLedger = (*Ledger)(nil)

type stakeRequest struct {
	RequestID string        `json:"request_id"`
	Amount    ledger.Amount `json:"amount"`
}

// Reserve: 402 o 409 del servicio => ledger.ErrInsufficientFunds.
func (l *Ledger) Reserve(ctx context.Context, account string, amount ledger.Amount) error {
	err := l.post(ctx, account, "reserve", amount)
	if err == nil {
		return nil
	}
	if httpclient.HasStatus(err, http.StatusPaymentRequired, http.StatusConflict) {
		return ledger.ErrInsufficientFunds
	}
	return fmt.Errorf("%w: reserve: %v", ErrUpstream, err)
}

// Unreserve no devuelve error: si el servicio falla queda registrado en el log
// para conciliarlo a mano.
func (l *Ledger) Unreserve(ctx context.Context, account string, amount ledger.Amount) {
	if err := l.post(ctx, account, "unreserve", amount); err != nil {
		l.log.Error("unreserve failed", map[string]any{
			"account": account,
			"amount":  uint64(amount),
			"error":   err.Error(),
		})
	}
}

const (
	maxAttempts  = 3
	retryBackoff = 50 * time.Millisecond
)

// post reintenta errores de transporte y 502/503/504 con el mismo request_id.
func (l *Ledger) post(ctx context.Context, account, action string, amount ledger.Amount) error {
	path := fmt.Sprintf("/v1/accounts/%s/%s", url.PathEscape(account), action)
	req := stakeRequest{RequestID: uuid.NewString(), Amount: amount}

	var err error
	for attempt := 1; ; attempt++ {
		err = l.http.DoJSON(ctx, http.MethodPost, path, nil, req, nil)
		if err == nil || attempt == maxAttempts || !retryable(err) {
			return err
		}

		l.log.Warn("ledger call failed, retrying", map[string]any{
			"action":     action,
			"request_id": req.RequestID,
			"attempt":    attempt,
			"error":      err.Error(),
		})
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
}

func retryable(err error) bool {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return true
	}
	return httpclient.HasStatus(err, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout)
}
