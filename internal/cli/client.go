package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creature-registry/internal/platform/httpclient"
)

// apiClient habla con el servidor del registro. La cuenta va por X-Debug-Account-ID
// (modo dev) o el token por Authorization.
type apiClient struct {
	http *httpclient.Client
}

func newAPIClient(server, account, token string, timeout time.Duration) (*apiClient, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return nil, fmt.Errorf("server is required")
	}
	headers := map[string]string{}
	if token = strings.TrimSpace(token); token != "" {
		headers["Authorization"] = "Bearer " + token
	} else if account = strings.TrimSpace(account); account != "" {
		headers["X-Debug-Account-ID"] = account
	}

	hc, err := httpclient.New(httpclient.Options{BaseURL: server, Timeout: timeout, Headers: headers})
	if err != nil {
		return nil, err
	}
	return &apiClient{http: hc}, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, in any) (any, error) {
	var out any
	if err := c.http.DoJSON(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) Create(ctx context.Context) (any, error) {
	return c.do(ctx, http.MethodPost, "/creatures", nil)
}

func (c *apiClient) Transfer(ctx context.Context, id uint32, to string) (any, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/creatures/%d/transfer", id), map[string]string{"to": to})
}

func (c *apiClient) Breed(ctx context.Context, id1, id2 uint32) (any, error) {
	return c.do(ctx, http.MethodPost, "/creatures/breed", map[string]uint32{"parent1_id": id1, "parent2_id": id2})
}

func (c *apiClient) Get(ctx context.Context, id uint32) (any, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/creatures/%d", id), nil)
}

func (c *apiClient) Lineage(ctx context.Context, id uint32) (any, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/creatures/%d/lineage", id), nil)
}

// List sin account lista las del llamador.
func (c *apiClient) List(ctx context.Context, account string) (any, error) {
	if account == "" {
		return c.do(ctx, http.MethodGet, "/creatures", nil)
	}
	return c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(account)+"/creatures", nil)
}

func (c *apiClient) Events(ctx context.Context, account string, creatureID *uint32, limit int) (any, error) {
	q := url.Values{}
	if account != "" {
		q.Set("account", account)
	}
	if creatureID != nil {
		q.Set("creature_id", fmt.Sprint(*creatureID))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}
