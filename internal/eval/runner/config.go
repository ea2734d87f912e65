package runner

import "runtime"

const (
	DefaultTopK       = 10
	DefaultWarmupRuns = 0
)

type Config struct {
	TopK             int
	Concurrency      int
	WarmupRuns       int
	SingleResultOnly bool
}

func DefaultConfig() Config {
	return Config{
		TopK:             DefaultTopK,
		Concurrency:      runtime.GOMAXPROCS(0),
		WarmupRuns:       DefaultWarmupRuns,
		SingleResultOnly: true,
	}
}

func (c Config) withDefaults() Config {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.GOMAXPROCS(0)
	}
	if c.WarmupRuns < 0 {
		c.WarmupRuns = 0
	}
	return c
}
