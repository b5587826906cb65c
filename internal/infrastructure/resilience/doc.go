/*
Package resilience provides a circuit breaker for calls to config storage.

# Overview

Persistence backends sit behind a breaker so that a failing disk or database
fails fast instead of stalling every request. Errors that say nothing about
backend health (a missing config, a caller cancellation) can be excluded
with Settings.IsFailure.

# Usage

	breaker := resilience.New("persistence", resilience.Settings{
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		IsFailure: func(err error) bool {
			return !errors.Is(err, persistence.ErrNotFound)
		},
	})

	cfg, err := resilience.Do(ctx, breaker, func(ctx context.Context) (*types.Config, error) {
		return backend.LoadConfig(ctx, name)
	})

# States

- Closed: calls pass through
- Open: calls fail immediately with ErrCircuitOpen
- Half-Open: a limited number of trial calls decide whether to close again

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
