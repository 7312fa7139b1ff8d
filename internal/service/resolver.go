package service

import (
	"context"
	"log/slog"

	"asset-qr/internal/codec"
	"asset-qr/internal/domain"
	"asset-qr/internal/metrics"
)

// Resolution is a code URL turned back into its record.
type Resolution struct {
	Record *domain.AssetRecord
	Mode   codec.Mode
	ID     string // set for reference links
}

// Resolver is the consumer side: it turns a scanned URL back into a record.
type Resolver struct {
	store  RecordStore
	logger *slog.Logger
}

// NewResolver creates a resolver. store may be nil, in which case only
// inline links resolve.
func NewResolver(store RecordStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve parses rawURL and resolves it. See ResolveLink.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	link, err := codec.ParseLink(rawURL)
	if err != nil {
		metrics.RecordResolution("unknown", domain.Kind(err))
		return nil, err
	}
	return r.ResolveLink(ctx, link)
}

// ResolveLink fetches or decodes the record behind link.
// When a link carries both an id and data, the id is used and data is ignored.
// The result always passes the required-field check.
func (r *Resolver) ResolveLink(ctx context.Context, link codec.Link) (*Resolution, error) {
	res, err := r.resolve(ctx, link)
	metrics.RecordResolution(string(link.Mode()), domain.Kind(err))
	if err != nil {
		r.logger.Debug("Failed to resolve link", "mode", link.Mode(), "id", link.ID, "error", err)
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, link codec.Link) (*Resolution, error) {
	var (
		record *domain.AssetRecord
		err    error
	)

	switch link.Mode() {
	case codec.ModeReference:
		if r.store == nil {
			return nil, &domain.StoreError{Op: "get", Err: errNoStore}
		}
		record, err = r.store.Get(ctx, link.ID)
	default:
		record, err = codec.DecodePayload(link.Data)
	}
	if err != nil {
		return nil, err
	}

	if err := record.CheckRequired(); err != nil {
		return nil, err
	}

	return &Resolution{Record: record, Mode: link.Mode(), ID: link.ID}, nil
}
