package catalog

import "context"

// Source supplies the raw catalog. Calls take no query parameters; every
// filter is applied client-side after the fetch.
type Source interface {
	FetchPromotions(ctx context.Context) ([]Promotion, error)
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchStores(ctx context.Context) ([]Store, error)
}

// Endpoint names a single Source call.
type Endpoint string

const (
	EndpointPromotions Endpoint = "promotions"
	EndpointCategories Endpoint = "categories"
	EndpointStores     Endpoint = "stores"
)

// Endpoints lists every Source call in fetch order.
func Endpoints() []Endpoint {
	return []Endpoint{EndpointPromotions, EndpointCategories, EndpointStores}
}
