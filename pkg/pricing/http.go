package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

// HTTPProvider fetches the pricing table from a remote JSON price list.
// Expected document shape:
//
//	{"ingest_vcu_hour": 0.14, "search_vcu_hour": 0.14, "storage_gb_month": 0.047}
//
// Fields may be omitted; missing tiers surface downstream as an incomplete
// pricing table rather than defaulting silently.
type HTTPProvider struct {
	url        string
	cache      *PriceCache
	httpClient *http.Client
}

type priceListResponse struct {
	IngestVCUHour  *float64 `json:"ingest_vcu_hour"`
	SearchVCUHour  *float64 `json:"search_vcu_hour"`
	StorageGBMonth *float64 `json:"storage_gb_month"`
}

func NewHTTPProvider(url string, cacheTTL time.Duration) *HTTPProvider {
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	return &HTTPProvider{
		url:   url,
		cache: NewPriceCache(cacheTTL),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *HTTPProvider) Name() string {
	return "http"
}

func (p *HTTPProvider) Table(ctx context.Context) (models.PricingTable, error) {
	if cached := p.cache.Get(p.url); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pricing request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pricing fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing endpoint returned status %d", resp.StatusCode)
	}

	var list priceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode price list: %w", err)
	}

	table := models.PricingTable{}
	if list.IngestVCUHour != nil {
		table[models.TierIngest] = *list.IngestVCUHour
	}
	if list.SearchVCUHour != nil {
		table[models.TierSearch] = *list.SearchVCUHour
	}
	if list.StorageGBMonth != nil {
		table[models.TierStorage] = *list.StorageGBMonth
	}

	p.cache.Set(p.url, table)
	return table, nil
}
