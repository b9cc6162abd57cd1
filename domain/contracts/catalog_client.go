package contracts

import (
	"context"
	"encoding/json"
)

// CatalogRecord is one record fetched from the external catalog. The payload
// is kept verbatim; RemoteID is the record's identifier in the remote system
// (not unique across sources).
type CatalogRecord struct {
	RemoteID int64
	Payload  json.RawMessage
}

// CatalogClient abstracts the external catalog API used as the import source.
// Implementations return ErrUpstream-wrapped errors on transport failures and
// non-2xx responses.
type CatalogClient interface {
	FetchProducts(ctx context.Context, limit int) ([]CatalogRecord, error)
	FetchCarts(ctx context.Context, limit int) ([]CatalogRecord, error)
}
