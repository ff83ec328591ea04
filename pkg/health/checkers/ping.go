package checkers

import (
	"context"
	"time"
)

// Pinger is anything that can report reachability, e.g. *pgxpool.Pool or the
// in-memory user repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingChecker struct {
	name string
	p    Pinger
}

func NewPingChecker(name string, p Pinger) *PingChecker {
	return &PingChecker{name: name, p: p}
}

// NewPostgresChecker checks a pgx pool.
func NewPostgresChecker(pool Pinger) *PingChecker {
	return NewPingChecker("postgres", pool)
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return c.p.Ping(ctx)
}
