// Package docbay is the embedded SDK: the same search core the API
// server runs, wired directly onto a Redis store, for Go programs that
// want query-language document search without running the HTTP service.
package docbay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docbay-cloud/docbay/internal/db"
	dbRedis "github.com/docbay-cloud/docbay/internal/db/redis"
	documentrepo "github.com/docbay-cloud/docbay/internal/repository/document"
	searchrepo "github.com/docbay-cloud/docbay/internal/repository/search"
	documentuc "github.com/docbay-cloud/docbay/internal/usecase/document"
	searchuc "github.com/docbay-cloud/docbay/internal/usecase/search"
	suggestuc "github.com/docbay-cloud/docbay/internal/usecase/suggest"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the docbay SDK entry point.
type Client struct {
	store      db.Store
	docSvc     *documentuc.Service
	searchSvc  *searchuc.Service
	suggestSvc *suggestuc.Service
}

// New creates a docbay Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("docbay: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("docbay: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docbay: database not ready: %w", err)
	}

	docRepo := documentrepo.New(store)
	searchRepo := searchrepo.New(store)

	c := &Client{
		store:      store,
		docSvc:     documentuc.New(docRepo),
		searchSvc:  searchuc.New(searchRepo, docRepo),
		suggestSvc: suggestuc.New(searchRepo),
	}

	if err := c.docSvc.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("docbay: ensure index: %w", err)
	}

	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Documents returns the document service scoped to an owner.
func (c *Client) Documents(owner string) *DocumentService {
	return &DocumentService{owner: owner, svc: c.docSvc}
}

// Search returns the search service scoped to an owner.
func (c *Client) Search(owner string) *SearchService {
	return &SearchService{owner: owner, svc: c.searchSvc}
}

// Suggest returns the suggestion service scoped to an owner.
func (c *Client) Suggest(owner string) *SuggestService {
	return &SuggestService{owner: owner, svc: c.suggestSvc}
}
