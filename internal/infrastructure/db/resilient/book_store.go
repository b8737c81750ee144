// Package resilient wraps the catalog store with a per-call reachability
// probe and an optional in-process fallback.
package resilient

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore/internal/core/domain"
	"github.com/bookstore/bookstore/internal/core/ports"
)

const defaultProbeTimeout = time.Second

var _ ports.BookRepository = (*BookStore)(nil)

// Options controls how BookStore degrades.
type Options struct {
	// ProbeTimeout is the hard deadline for the reachability check.
	ProbeTimeout time.Duration
	// OnFallback, when set, is called with the operation name each time the
	// fallback store serves a call.
	OnFallback func(operation string)
}

// BookStore probes primary once at the start of every call. When primary is
// unreachable the call is served by fallback, or fails with
// domain.ErrStoreUnavailable if no fallback is configured.
type BookStore struct {
	primary  ports.BookRepository
	fallback ports.BookRepository
	opts     Options
	log      zerolog.Logger
}

// NewBookStore wraps primary. fallback may be nil.
func NewBookStore(primary, fallback ports.BookRepository, opts Options, log zerolog.Logger) *BookStore {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	return &BookStore{primary: primary, fallback: fallback, opts: opts, log: log}
}

// Reachable reports whether the primary store answers within the probe timeout.
func (s *BookStore) Reachable(ctx context.Context) bool {
	return s.probe(ctx) == nil
}

func (s *BookStore) List(ctx context.Context) ([]domain.Book, error) {
	repo, err := s.pick(ctx, "list")
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

func (s *BookStore) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	repo, err := s.pick(ctx, "get")
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

func (s *BookStore) Create(ctx context.Context, b domain.Book) (*domain.Book, error) {
	repo, err := s.pick(ctx, "create")
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, b)
}

func (s *BookStore) Update(ctx context.Context, id string, patch domain.BookPatch) (*domain.Book, error) {
	repo, err := s.pick(ctx, "update")
	if err != nil {
		return nil, err
	}
	return repo.Update(ctx, id, patch)
}

func (s *BookStore) Delete(ctx context.Context, id string) (*domain.Book, error) {
	repo, err := s.pick(ctx, "delete")
	if err != nil {
		return nil, err
	}
	return repo.Delete(ctx, id)
}

// Ping reports the primary's health; a configured fallback does not mask it.
func (s *BookStore) Ping(ctx context.Context) error {
	return s.probe(ctx)
}

func (s *BookStore) probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, s.opts.ProbeTimeout)
	defer cancel()
	return s.primary.Ping(probeCtx)
}

func (s *BookStore) pick(ctx context.Context, op string) (ports.BookRepository, error) {
	err := s.probe(ctx)
	if err == nil {
		return s.primary, nil
	}
	if s.fallback == nil {
		s.log.Error().Err(err).Str("operation", op).Msg("catalog store unreachable")
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s.log.Warn().Err(err).Str("operation", op).Msg("catalog store unreachable, serving in-memory fallback")
	if s.opts.OnFallback != nil {
		s.opts.OnFallback(op)
	}
	return s.fallback, nil
}
