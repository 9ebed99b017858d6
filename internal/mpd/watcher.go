package mpd

import (
	gompd "github.com/fhs/gompd/v2/mpd"
)

// Watcher delivers daemon idle events over a dedicated connection.
type Watcher struct {
	w *gompd.Watcher
}

// Watch opens an idle connection subscribed to the given subsystems
// ("player", "playlist", "update", ...). With none given, all
// subsystems are reported.
func Watch(addr, password string, subsystems ...string) (*Watcher, error) {
	network, dial := networkFor(addr)
	w, err := gompd.NewWatcher(network, dial, password, subsystems...)
	if err != nil {
		return nil, err
	}
	return &Watcher{w: w}, nil
}

// Events returns the channel of subsystem names, one per daemon event.
func (w *Watcher) Events() <-chan string {
	return w.w.Event
}

// Errors returns the channel of connection-level errors. Errors do not
// necessarily close the event channel; readers decide whether to tear
// down and redial.
func (w *Watcher) Errors() <-chan error {
	return w.w.Error
}

// Close terminates the idle connection and closes both channels.
func (w *Watcher) Close() error {
	return w.w.Close()
}
