package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/tablewriter"
)

// AdapterFactory creates an unconnected adapter for a credentials entry.
type AdapterFactory func(cfg core.AdapterConfig, logger *slog.Logger) (adapter.Adapter, error)

// Pool owns one connection per credentials entry. Connections are opened
// on first use and closed by Close.
type Pool struct {
	credentials map[string]core.AdapterConfig
	newAdapter  AdapterFactory
	logger      *slog.Logger

	mu      sync.Mutex
	handles map[string]*Handle
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithAdapterFactory replaces the registry-backed adapter factory.
func WithAdapterFactory(f AdapterFactory) PoolOption {
	return func(p *Pool) { p.newAdapter = f }
}

// NewPool creates a pool over the named credentials.
func NewPool(credentials map[string]core.AdapterConfig, logger *slog.Logger, opts ...PoolOption) *Pool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Pool{
		credentials: credentials,
		newAdapter:  adapter.NewAdapter,
		logger:      logger,
		handles:     make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle returns the shared handle for a credentials entry. The entry is
// validated but no connection is opened.
func (p *Pool) Handle(name string) (*Handle, error) {
	if name == "" {
		return nil, &core.ConfigurationError{Field: "credentials"}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.handles[name]; ok {
		return h, nil
	}

	cfg, ok := p.credentials[name]
	if !ok {
		return nil, &core.ConfigurationError{
			Dataset: name,
			Field:   "credentials",
			Reason:  fmt.Sprintf("credentials %q not found, available: %v", name, p.names()),
		}
	}
	if err := cfg.Validate(name); err != nil {
		return nil, err
	}

	h := &Handle{
		name:       name,
		cfg:        cfg,
		newAdapter: p.newAdapter,
		logger:     p.logger.With("credentials", name),
	}
	p.handles[name] = h
	return h, nil
}

// Close closes every opened connection.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result error
	for name, h := range p.handles {
		if err := h.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close %q: %w", name, err))
		}
	}
	p.handles = make(map[string]*Handle)
	return result
}

func (p *Pool) names() []string {
	names := make([]string, 0, len(p.credentials))
	for name := range p.credentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle is a lazily connected warehouse connection shared by every data
// set that uses the same credentials.
type Handle struct {
	name       string
	cfg        core.AdapterConfig
	newAdapter AdapterFactory
	logger     *slog.Logger

	mu     sync.Mutex
	conn   adapter.Adapter
	writer *tablewriter.Writer
}

// Name returns the credentials entry name.
func (h *Handle) Name() string { return h.name }

// Conn returns the connected adapter, connecting on first use.
func (h *Handle) Conn(ctx context.Context) (adapter.Adapter, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ensureConnected(ctx)
}

// Writer returns the table writer bound to this connection. All saves
// through the handle share it and are serialized.
func (h *Handle) Writer(ctx context.Context) (*tablewriter.Writer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, err := h.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}
	if h.writer == nil {
		h.writer = tablewriter.New(conn, h.logger)
	}
	return h.writer, nil
}

// ensureConnected opens the connection if needed. Must be called with h.mu held.
func (h *Handle) ensureConnected(ctx context.Context) (adapter.Adapter, error) {
	if h.conn != nil {
		return h.conn, nil
	}

	a, err := h.newAdapter(h.cfg, h.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter: %w", err)
	}
	if err := a.Connect(ctx, h.cfg); err != nil {
		var connErr *core.ConnectionError
		var cfgErr *core.ConfigurationError
		if !errors.As(err, &connErr) && !errors.As(err, &cfgErr) {
			err = &core.ConnectionError{Message: err.Error(), Err: err}
		}
		return nil, err
	}

	h.logger.Info("connected to warehouse", "account", h.cfg.Account, "type", h.cfg.Type)
	h.conn = a
	return a, nil
}

// Close closes the connection if it was opened.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conn == nil {
		return nil
	}
	err := h.conn.Close()
	h.conn = nil
	h.writer = nil
	return err
}
