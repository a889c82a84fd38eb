package realtime

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

type Handler func(Event)

// Registry memetakan event type ke tepat satu handler.
// Register, Unregister dan Dispatch berjalan dalam satu critical section, jadi handler
// tidak pernah dipanggil setelah Unregister selesai dan tidak ada dua handler yang jalan bersamaan.
// Handler tidak boleh memanggil Registry lagi.
type Registry struct {
	mu       sync.Mutex
	handlers map[string]Handler
	log      *logrus.Entry
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		log:      logrus.WithField("component", "registry"),
	}
}

// Register selalu menimpa handler lama untuk type yang sama (last writer wins).
// Handler nil sama dengan Unregister.
func (r *Registry) Register(eventType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.handlers, eventType)
		return
	}
	r.handlers[eventType] = h
}

// Unregister menghapus handler, type yang tidak terdaftar diabaikan
func (r *Registry) Unregister(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, eventType)
}

// Dispatch memanggil handler untuk ev secara sinkron. Kalau tidak ada handler, event dibuang.
// Nilai kembalian true kalau ada handler yang dipanggil.
func (r *Registry) Dispatch(ev Event) bool {
	if ev == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handlers[ev.EventType()]
	if !ok {
		r.log.WithField("event_type", ev.EventType()).Debug("no handler, envelope dropped")
		return false
	}
	h(ev)
	return true
}

// DispatchRaw decode lalu dispatch satu pesan mentah dari transport
func (r *Registry) DispatchRaw(data []byte) (bool, error) {
	ev, err := DecodeEnvelope(data)
	if err != nil {
		return false, err
	}
	return r.Dispatch(ev), nil
}

// Types mengembalikan event type yang sedang terdaftar, terurut
func (r *Registry) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
