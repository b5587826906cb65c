// Package menu builds the tile menu of a placed widget and applies the
// submitted results of its modals.
//
// A Dispatcher turns a widget instance plus the current grid width into a
// Menu. The Menu exposes three intents (edit, resize, remove). Each intent
// builds a typed request and hands it to a ModalOpener exactly once. The
// menu never renders anything itself.
//
// An Editor applies what comes back from those modals: validated property
// edits, new grid areas and removals, all routed through the config store.
//
// Example Usage:
//
//	d := menu.NewDispatcher(registry, hub)
//	m := d.Menu(w.Type, &w, &columns)
//	if m.CanEdit() {
//	    _ = m.RequestEdit()
//	}
package menu
