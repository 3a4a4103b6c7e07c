package udaf

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rulego/udaf/aggregator"
	"github.com/rulego/udaf/expr"
	"github.com/rulego/udaf/functions"
	"github.com/rulego/udaf/logger"
	"github.com/rulego/udaf/types"
)

// Compiler distills expressions into aggregation routines. It owns the
// function registry and therefore the metadata cache; reuse one Compiler per
// engine connection. A Compiler is safe for concurrent use.
type Compiler struct {
	config     types.Config
	meta       functions.MetadataService
	registry   *functions.Registry
	registerer prometheus.Registerer
	metrics    *metrics
	logger     logger.Logger
	level      *logger.Level
}

// New 创建编译器。
//
// 示例:
//
//	c, err := udaf.New(
//	    udaf.WithMetadataService(bridge),
//	    udaf.WithRegisterer(prometheus.DefaultRegisterer),
//	)
func New(options ...Option) (*Compiler, error) {
	c := &Compiler{
		config: types.NewConfig(),
		logger: logger.GetDefault(),
	}
	for _, option := range options {
		option(c)
	}

	if c.level == nil && c.config.LogLevel != "" {
		level, err := logger.ParseLevel(c.config.LogLevel)
		if err != nil {
			return nil, err
		}
		c.level = &level
	}
	if c.level != nil {
		c.logger.SetLevel(*c.level)
	}

	if c.meta == nil && c.config.CatalogPath != "" {
		catalog, err := functions.LoadCatalogFile(c.config.CatalogPath)
		if err != nil {
			return nil, err
		}
		c.logger.Info("loaded metadata catalog %s", c.config.CatalogPath)
		c.meta = catalog
	}

	c.metrics = newMetrics(c.registerer)
	cache := functions.NewMetadataCache()
	cache.Instrument(c.metrics.cacheHits, c.metrics.cacheMisses)
	c.registry = functions.NewRegistry(c.meta,
		functions.WithMetadataCache(cache),
		functions.WithMethodNameSeparator(c.config.CodegenConfig.MethodNameSeparator),
		functions.WithLogger(c.logger),
	)
	return c, nil
}

// Registry returns the function registry used to resolve calls.
func (c *Compiler) Registry() *functions.Registry {
	return c.registry
}

// Config returns the compiler configuration.
func (c *Compiler) Config() types.Config {
	return c.config
}

// Distill generates the routines of a kind aggregation over node. schema
// gives the engine type of every column node reads.
func (c *Compiler) Distill(ctx context.Context, node expr.Node, kind aggregator.Kind, schema map[string]types.DataType) (*aggregator.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	c.logger.Debug("distilling %s(%s)", kind, node)

	art, err := aggregator.Distill(ctx, node, kind, &aggregator.Env{
		Schema:   schema,
		Registry: c.registry,
		Config:   c.config.CodegenConfig,
	})
	c.metrics.observe(kind, err, time.Since(start))
	if err != nil {
		c.logger.Error("distill %s(%s) failed: %v", kind, node, err)
		return nil, err
	}

	c.logger.Debug("distilled %s(%s): layout [%s], %d imports, %d methods",
		kind, node, art.BufferLayout, len(art.Imports), len(art.Methods))
	return art, nil
}

// Compile parses text, resolving function names against the registry, and
// distills it.
//
// 示例:
//
//	art, err := c.Compile(ctx, "IF(qty > 0, price * qty, 0)", aggregator.Sum, schema)
func (c *Compiler) Compile(ctx context.Context, text string, kind aggregator.Kind, schema map[string]types.DataType) (*aggregator.Artifact, error) {
	node, err := expr.Parse(text, c.registry.Get)
	if err != nil {
		c.logger.Error("parse %q failed: %v", text, err)
		return nil, fmt.Errorf("parse %q: %w", text, err)
	}
	return c.Distill(ctx, node, kind, schema)
}
