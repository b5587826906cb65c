// Package store provides the in-memory config store.
//
// The store owns every loaded dashboard config and tracks which one is
// active. Widget mutations always target the active config. Every mutation
// is published to subscribers as an Event after the store lock has been
// released, so subscribers may call back into the store.
//
// A config can be locked for the duration of a multi-step operation such as
// a remote delete. While locked, widget mutations on that config fail with
// ErrConfigBusy. Writes are otherwise last-writer-wins.
//
// Example Usage:
//
//	s := store.New(logger)
//	unsubscribe := s.Subscribe(func(ev store.Event) { ... })
//	defer unsubscribe()
//
//	s.Load(cfg)
//	_ = s.SetActive(cfg.Name())
//	_ = s.AddWidget(types.WidgetInstance{ID: "w1", Type: "weather"})
package store
