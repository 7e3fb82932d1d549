package scenario

import (
	"context"
	"sync"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
)

// Comparison runs several scenarios on independent workers. Each run
// owns its own state, policy and trajectory, so no coordination is
// needed beyond waiting for all of them to finish.
type Comparison struct {
	names   []string
	configs []*config.Config
}

func NewComparison() *Comparison {
	return &Comparison{}
}

func (c *Comparison) Add(name string, cfg *config.Config) {
	c.names = append(c.names, name)
	c.configs = append(c.configs, cfg)
}

func (c *Comparison) Run(ctx context.Context) (map[string]*epi.Result, error) {
	results := make([]*epi.Result, len(c.configs))
	errs := make([]error, len(c.configs))

	var wg sync.WaitGroup
	for i := range c.configs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = Run(ctx, c.configs[idx])
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	byName := make(map[string]*epi.Result, len(results))
	for i, name := range c.names {
		byName[name] = results[i]
	}
	return byName, nil
}
