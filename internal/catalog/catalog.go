// Package catalog builds the data sets of a catalog configuration and
// routes load, save and describe calls to them by name.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/leapstack-labs/sfcatalog/internal/config"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	"github.com/leapstack-labs/sfcatalog/pkg/tablewriter"

	// Register the built-in data set types
	_ "github.com/leapstack-labs/sfcatalog/pkg/datasets/dummies"
	_ "github.com/leapstack-labs/sfcatalog/pkg/datasets/snowflake"
)

// Config holds catalog construction options.
type Config struct {
	// Catalog holds the data set definitions and named credentials
	Catalog *config.Catalog
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// AdapterFactory replaces the registry-backed adapter constructor (optional)
	AdapterFactory dataset.AdapterFactory
}

// Entry is one constructed data set.
type Entry struct {
	Name    string
	Type    string
	Dataset dataset.Dataset
}

// Planner is implemented by data sets that create tables on save.
type Planner interface {
	Plan(f *frame.Frame) tablewriter.CreatePlan
}

// Catalog owns the data sets and the connections they share.
type Catalog struct {
	entries     map[string]*Entry
	credentials []string
	pool        *dataset.Pool
	logger      *slog.Logger
}

// New constructs every data set eagerly so configuration errors surface
// at startup. Connections are opened on first use.
func New(cfg Config) (*Catalog, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = &config.Catalog{}
	}

	var opts []dataset.PoolOption
	if cfg.AdapterFactory != nil {
		opts = append(opts, dataset.WithAdapterFactory(cfg.AdapterFactory))
	}
	pool := dataset.NewPool(cfg.Catalog.Credentials, logger, opts...)
	env := dataset.Env{Pool: pool, Logger: logger}

	c := &Catalog{
		entries: make(map[string]*Entry, len(cfg.Catalog.Datasets)),
		pool:    pool,
		logger:  logger,
	}
	for name := range cfg.Catalog.Credentials {
		c.credentials = append(c.credentials, name)
	}
	sort.Strings(c.credentials)

	var result error
	for _, name := range cfg.Catalog.DatasetNames() {
		entry := cfg.Catalog.Datasets[name]
		ds, err := dataset.New(entry.Type(), name, entry.Args(), env)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		c.entries[name] = &Entry{Name: name, Type: entry.Type(), Dataset: ds}
	}
	if result != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to build catalog: %w", result)
	}

	logger.Debug("catalog built", "datasets", len(c.entries), "credentials", len(cfg.Catalog.Credentials))
	return c, nil
}

// List returns every data set entry sorted by name.
func (c *Catalog) List() []Entry {
	entries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Get returns the named data set.
func (c *Catalog) Get(name string) (dataset.Dataset, error) {
	e, err := c.entry(name)
	if err != nil {
		return nil, err
	}
	return e.Dataset, nil
}

// Describe returns the data set's description with its type added.
func (c *Catalog) Describe(name string) (map[string]any, error) {
	e, err := c.entry(name)
	if err != nil {
		return nil, err
	}
	desc := map[string]any{"type": e.Type}
	for k, v := range e.Dataset.Describe() {
		desc[k] = v
	}
	return desc, nil
}

// Load loads the named data set.
func (c *Catalog) Load(ctx context.Context, name string) (any, error) {
	return c.LoadLimit(ctx, name, 0)
}

// LoadLimit loads at most limit rows of the named data set when it
// supports bounded reads; zero reads everything.
func (c *Catalog) LoadLimit(ctx context.Context, name string, limit int) (any, error) {
	e, err := c.entry(name)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("loading data set", "dataset", name, "type", e.Type)

	var data any
	if l, ok := e.Dataset.(dataset.LimitLoader); ok && limit > 0 {
		data, err = l.LoadLimit(ctx, limit)
	} else {
		data, err = e.Dataset.Load(ctx)
	}
	if err != nil {
		return nil, &dataset.Error{Dataset: name, Op: "load", Err: err}
	}

	if f, ok := data.(*frame.Frame); ok && limit > 0 {
		data = f.Head(limit)
	}
	return data, nil
}

// Save saves data to the named data set.
func (c *Catalog) Save(ctx context.Context, name string, data any) error {
	e, err := c.entry(name)
	if err != nil {
		return err
	}

	c.logger.Debug("saving data set", "dataset", name, "type", e.Type)

	if err := e.Dataset.Save(ctx, data); err != nil {
		return &dataset.Error{Dataset: name, Op: "save", Err: err}
	}
	return nil
}

// Plan returns the DDL a save of f to the named data set would run,
// without executing anything.
func (c *Catalog) Plan(name string, f *frame.Frame) (tablewriter.CreatePlan, error) {
	if f == nil {
		return tablewriter.CreatePlan{}, fmt.Errorf("no frame to plan for %q", name)
	}
	e, err := c.entry(name)
	if err != nil {
		return tablewriter.CreatePlan{}, err
	}
	p, ok := e.Dataset.(Planner)
	if !ok {
		return tablewriter.CreatePlan{}, fmt.Errorf("data set %q of type %s does not create tables", name, e.Type)
	}
	return p.Plan(f), nil
}

// Credentials returns the names of the configured credentials entries.
func (c *Catalog) Credentials() []string {
	return c.credentials
}

// Ping connects with the named credentials and runs a trivial statement.
func (c *Catalog) Ping(ctx context.Context, credentials string) error {
	h, err := c.pool.Handle(credentials)
	if err != nil {
		return err
	}
	conn, err := h.Conn(ctx)
	if err != nil {
		return err
	}
	if err := conn.Exec(ctx, pingStatement); err != nil {
		return fmt.Errorf("failed to ping %q: %w", credentials, err)
	}
	return nil
}

const pingStatement = "SELECT 1"

// Query runs sql with the named credentials and materializes the result.
func (c *Catalog) Query(ctx context.Context, credentials, sql string) (*frame.Frame, error) {
	h, err := c.pool.Handle(credentials)
	if err != nil {
		return nil, err
	}
	conn, err := h.Conn(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("running query", "credentials", credentials, slog.String("sql", sql))
	return conn.QueryFrame(ctx, sql)
}

// Close closes every connection the catalog opened.
func (c *Catalog) Close() error {
	c.logger.Debug("closing catalog")
	return c.pool.Close()
}

func (c *Catalog) entry(name string) (*Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		names := make([]string, 0, len(c.entries))
		for n := range c.entries {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, &NotFoundError{Name: name, Available: names}
	}
	return e, nil
}

// NotFoundError is returned for a data set name the catalog does not define.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("data set %q not found in catalog\nAvailable data sets: %v\nHint: Check the data set names in catalog.yaml", e.Name, e.Available)
}
