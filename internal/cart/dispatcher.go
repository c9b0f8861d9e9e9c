package cart

import (
	"log"
	"sync"
)

// Consumer receives the full post-mutation snapshot. Consumers must
// recompute their output wholly from the snapshot; the slice they
// receive is theirs to keep but must not be fed back into the Store.
type Consumer func(lines []Line)

// Dispatcher broadcasts cart-changed signals to registered consumers.
// A consumer that panics is logged and skipped; it never blocks the
// others from receiving the signal.
type Dispatcher struct {
	mu        sync.Mutex
	consumers []namedConsumer
}

type namedConsumer struct {
	name string
	fn   Consumer
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers a consumer under a name used only for logging.
func (d *Dispatcher) Subscribe(name string, fn Consumer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.consumers = append(d.consumers, namedConsumer{name: name, fn: fn})
}

// Broadcast delivers the snapshot to every consumer. Each consumer
// gets its own copy. Broadcasts are serialized so consumers observe
// snapshots in mutation order.
func (d *Dispatcher) Broadcast(lines []Line) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.consumers {
		snapshot := make([]Line, len(lines))
		copy(snapshot, lines)
		d.deliver(c, snapshot)
	}
}

func (d *Dispatcher) deliver(c namedConsumer, snapshot []Line) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Cart] Consumer %s panicked: %v", c.name, r)
		}
	}()
	c.fn(snapshot)
}
