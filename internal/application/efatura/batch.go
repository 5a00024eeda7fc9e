package efatura

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Valores por defecto de los lotes: grupos de 5, hasta 5 llamadas simultáneas, 100 ms entre grupos.
const (
	DefaultGroupSize   = 5
	DefaultConcurrency = 5
	DefaultGroupDelay  = 100 * time.Millisecond
)

// BatchOptions controla el ritmo de un lote contra el proveedor. Los valores cero
// toman los valores por defecto; Delay negativo elimina la pausa.
type BatchOptions struct {
	GroupSize   int
	Concurrency int
	Delay       time.Duration
}

func (o BatchOptions) normalized() BatchOptions {
	if o.GroupSize <= 0 {
		o.GroupSize = DefaultGroupSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	switch {
	case o.Delay == 0:
		o.Delay = DefaultGroupDelay
	case o.Delay < 0:
		o.Delay = 0
	}
	return o
}

// sleepCtx pausa respetando la cancelación.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// runGroups ejecuta fn(i) para i en [0, n) por grupos de GroupSize, con a lo sumo
// Concurrency simultáneas y una pausa entre grupos. fn registra su propio resultado;
// si devuelve error no se inician más grupos (el grupo en curso termina).
// Devuelve cuántos elementos se procesaron y el primer error que detuvo el lote.
// opts debe venir normalizado.
func runGroups(ctx context.Context, n int, opts BatchOptions, sleep func(context.Context, time.Duration) error, fn func(ctx context.Context, i int) error) (int, error) {
	processed := 0
	for start := 0; start < n; start += opts.GroupSize {
		if start > 0 {
			if err := sleep(ctx, opts.Delay); err != nil {
				return processed, err
			}
		}
		end := min(start+opts.GroupSize, n)

		var g errgroup.Group
		g.SetLimit(opts.Concurrency)
		for i := start; i < end; i++ {
			g.Go(func() error { return fn(ctx, i) })
		}
		err := g.Wait()
		processed = end
		if err != nil {
			return processed, err
		}
	}
	return processed, nil
}
