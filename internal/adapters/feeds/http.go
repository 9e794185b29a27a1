package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPFeed consulta series numéricas de un endpoint HTTP sencillo:
// GET {base}/series/{name} -> {"value": 91.0}.
type HTTPFeed struct {
	http *http.Client
	base string
}

// NewHTTPFeed crea el feed contra el base URL dado.
func NewHTTPFeed(base string) *HTTPFeed {
	return &HTTPFeed{
		http: &http.Client{Timeout: 15 * time.Second},
		base: base,
	}
}

// Fetch consulta el valor actual de la serie.
func (f *HTTPFeed) Fetch(ctx context.Context, series string) (float64, error) {
	endpoint := fmt.Sprintf("%s/series/%s", f.base, url.PathEscape(series))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("feeds.Fetch: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("feeds.Fetch %s: %w", series, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("feeds.Fetch %s: status %d", series, resp.StatusCode)
	}

	var body struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("feeds.Fetch %s: decode: %w", series, err)
	}
	return body.Value, nil
}
