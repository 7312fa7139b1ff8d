package service

import (
	"context"
	"errors"
	"log/slog"

	"asset-qr/internal/codec"
	"asset-qr/internal/domain"
	"asset-qr/internal/metrics"
)

var errNoStore = errors.New("no record store configured")

// Session is what one form submission produces. It replaces any
// "current record / current URL" state between submission and export.
type Session struct {
	Record *domain.AssetRecord
	URL    string
	Mode   codec.Mode
	ID     string

	// FallbackErr holds the store failure when a reference code was
	// requested but an inline code was produced instead.
	FallbackErr error
}

// Generator is the producer side: it turns a validated record into a code URL.
type Generator struct {
	store          RecordStore
	viewerURL      string
	fallbackInline bool
	logger         *slog.Logger
}

// NewGenerator creates a generator building links against viewerURL
// (e.g. "https://assets.example.com/view"). store may be nil.
func NewGenerator(store RecordStore, viewerURL string, fallbackInline bool, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		store:          store,
		viewerURL:      viewerURL,
		fallbackInline: fallbackInline,
		logger:         logger,
	}
}

// Generate validates record and builds its code URL.
//
// With useStore the record is persisted and a reference URL is returned.
// A *domain.StoreError never yields a reference URL: the generator either
// falls back to an inline URL (when enabled) or returns the error.
func (g *Generator) Generate(ctx context.Context, record *domain.AssetRecord, useStore bool) (*Session, error) {
	if record == nil {
		return nil, &domain.ValidationError{}
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	session := &Session{Record: record}

	if useStore {
		id, err := g.create(ctx, record)
		if err == nil {
			session.ID = id
			session.Mode = codec.ModeReference
			session.URL = codec.BuildReferenceURL(g.viewerURL, id)
			metrics.RecordCodeGenerated(string(session.Mode))
			return session, nil
		}

		var storeErr *domain.StoreError
		if !errors.As(err, &storeErr) || !g.fallbackInline {
			return nil, err
		}

		g.logger.Warn("Record store unavailable, falling back to inline code", "error", err)
		metrics.RecordStoreFallback()
		session.FallbackErr = err
	}

	url, err := codec.BuildInlineURL(g.viewerURL, record)
	if err != nil {
		return nil, err
	}
	session.Mode = codec.ModeInline
	session.URL = url
	metrics.RecordCodeGenerated(string(session.Mode))

	return session, nil
}

func (g *Generator) create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	if g.store == nil {
		return "", &domain.StoreError{Op: "create", Err: errNoStore}
	}
	return g.store.Create(ctx, record)
}
