package functions

import (
	"context"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rulego/udaf/types"
)

// MetadataService answers type questions about methods that already exist
// in the engine. Implementations usually perform a network round-trip.
type MetadataService interface {
	// MethodSignatures returns the parameter types of every overload of class.method.
	MethodSignatures(ctx context.Context, class, method string) ([][]types.DataType, error)
	// MethodOutputType returns the type produced by class.method for the given argument types.
	MethodOutputType(ctx context.Context, class, method string, args []types.DataType) (types.DataType, error)
}

// MetadataCache memoizes MetadataService answers. Signatures are keyed by
// (class, method) and output types by (class, method, argument types).
// Failed lookups are not cached.
type MetadataCache struct {
	mu         sync.Mutex
	signatures map[string][][]types.DataType
	outputs    map[string]types.DataType
	hits       prometheus.Counter
	misses     prometheus.Counter
}

// NewMetadataCache creates an empty cache.
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{
		signatures: make(map[string][][]types.DataType),
		outputs:    make(map[string]types.DataType),
	}
}

// Instrument reports hits and misses to the given counters. Either may be nil.
func (c *MetadataCache) Instrument(hits, misses prometheus.Counter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = hits
	c.misses = misses
}

// Signatures returns the cached signatures of class.method, fetching them on a miss.
func (c *MetadataCache) Signatures(ctx context.Context, svc MetadataService, class, method string) ([][]types.DataType, error) {
	key := class + "#" + method
	c.mu.Lock()
	defer c.mu.Unlock()
	if sigs, ok := c.signatures[key]; ok {
		c.observe(true)
		return sigs, nil
	}
	c.observe(false)
	sigs, err := svc.MethodSignatures(ctx, class, method)
	if err != nil {
		return nil, err
	}
	c.signatures[key] = sigs
	return sigs, nil
}

// OutputType returns the cached output type of class.method for args, fetching it on a miss.
func (c *MetadataCache) OutputType(ctx context.Context, svc MetadataService, class, method string, args []types.DataType) (types.DataType, error) {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = string(a)
	}
	key := class + "#" + method + "(" + strings.Join(names, ",") + ")"
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.outputs[key]; ok {
		c.observe(true)
		return t, nil
	}
	c.observe(false)
	t, err := svc.MethodOutputType(ctx, class, method, args)
	if err != nil {
		return "", err
	}
	c.outputs[key] = t
	return t, nil
}

// Len returns the number of cached answers.
func (c *MetadataCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.signatures) + len(c.outputs)
}

func (c *MetadataCache) observe(hit bool) {
	if hit && c.hits != nil {
		c.hits.Inc()
	} else if !hit && c.misses != nil {
		c.misses.Inc()
	}
}
