package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/logger"
	"github.com/Adda-Baaj/storefront-apitest/pkg/collections"
	"github.com/Adda-Baaj/storefront-apitest/pkg/restapi"
	"github.com/stretchr/testify/require"
)

// abandonGrace is how long Execute waits for a case after its context is done.
const abandonGrace = 100 * time.Millisecond

// RunTest runs every case of s as a subtest of t.
func RunTest(t *testing.T, env *Env, s Suite) {
	t.Helper()
	res, err := env.Resource(s.Collection)
	require.NoError(t, err)

	for _, c := range s.Cases {
		t.Run(c.Name, func(t *testing.T) {
			c.Run(t.Context(), t, env.fixture(s.Collection, res))
		})
	}
}

// CaseResult is the outcome of one case run outside go test.
type CaseResult struct {
	Collection string   `json:"collection"`
	Case       string   `json:"case"`
	Passed     bool     `json:"passed"`
	Failures   []string `json:"failures,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// Execute runs the cases of s one after another, each bounded by timeout.
// It stops early when ctx is done and returns the results gathered so far.
func Execute(ctx context.Context, env *Env, s Suite, timeout time.Duration) ([]CaseResult, error) {
	res, err := env.Resource(s.Collection)
	if err != nil {
		return nil, err
	}

	results := make([]CaseResult, 0, len(s.Cases))
	for _, c := range s.Cases {
		if ctx.Err() != nil {
			break
		}
		results = append(results, runCase(ctx, env, s.Collection, res, c, timeout))
	}
	return results, nil
}

func runCase(ctx context.Context, env *Env, col collections.Collection, res *restapi.Resource, c Case, timeout time.Duration) CaseResult {
	rec := &recorder{name: col.Name + "/" + c.Name, log: env.logger()}
	start := time.Now()

	caseCtx, cancel := context.WithTimeout(ctx, timeout)
	done := rec.goroutine(func() { c.Run(caseCtx, rec, env.fixture(col, res)) })
	select {
	case <-done:
	case <-caseCtx.Done():
		// A case that ignores ctx is abandoned after a short grace period.
		// Items it tracks later stay in the ledger for the next sweep.
		select {
		case <-done:
		case <-time.After(abandonGrace):
			rec.Errorf("case %s abandoned: still running after context was done", rec.name)
		}
	}
	if errors.Is(caseCtx.Err(), context.DeadlineExceeded) {
		rec.Errorf("case %s did not finish within %s", rec.name, timeout)
	}
	cancel()

	<-rec.goroutine(rec.runCleanups)

	failures := rec.failureList()
	return CaseResult{
		Collection: col.Name,
		Case:       c.Name,
		Passed:     len(failures) == 0,
		Failures:   failures,
		DurationMs: time.Since(start).Milliseconds(),
	}
}

// recorder is a T that collects failures instead of reporting to go test.
// FailNow stops the calling goroutine, so case code only runs via goroutine.
type recorder struct {
	name string
	log  logger.Logger

	mu       sync.Mutex
	failures []string
	cleanups []func()
}

func (r *recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() {
	r.mu.Lock()
	if len(r.failures) == 0 {
		r.failures = append(r.failures, "case stopped")
	}
	r.mu.Unlock()
	runtime.Goexit()
}

func (r *recorder) Helper() {}

func (r *recorder) Logf(format string, args ...any) {
	r.log.DebugObj("case log", "case", map[string]any{
		"name":    r.name,
		"message": fmt.Sprintf(format, args...),
	})
}

func (r *recorder) Cleanup(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups = append(r.cleanups, fn)
}

// runCleanups calls the registered functions last registered first.
func (r *recorder) runCleanups() {
	for {
		r.mu.Lock()
		n := len(r.cleanups)
		if n == 0 {
			r.mu.Unlock()
			return
		}
		fn := r.cleanups[n-1]
		r.cleanups = r.cleanups[:n-1]
		r.mu.Unlock()
		fn()
	}
}

func (r *recorder) failureList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}

// goroutine runs fn on its own goroutine and turns a panic into a failure.
// The returned channel is closed when fn returns or calls FailNow.
func (r *recorder) goroutine(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				r.Errorf("panic: %v", p)
			}
		}()
		fn()
	}()
	return done
}
