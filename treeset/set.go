package treeset

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"github.com/tuannh982/actor-treeset/treeset/commons"
	"github.com/tuannh982/actor-treeset/treeset/internal"
	"github.com/tuannh982/actor-treeset/utils/collections"
	"github.com/tuannh982/actor-treeset/utils/service"
)

// DefaultMailboxSize is the capacity of the set's front door. Submissions
// block once it fills, which is the only backpressure the set applies.
const DefaultMailboxSize = 65535

// Set is a concurrent ordered-value set. One goroutine owns the front door
// and routes every submission to the root of a tree of node actors; replies
// go straight from whichever node settles the operation to the requester's
// channel, so they arrive in no particular order. Garbage collection copies
// the live values into a fresh tree and retires the old one wholesale.
type Set[V constraints.Ordered] struct {
	*service.SimpleService
	// current generation
	root      *internal.Node[V]
	genCancel context.CancelFunc
	// collection in flight, owned by the receive routine
	collecting   bool
	collectStart time.Time
	nextRoot     *internal.Node[V]
	nextCancel   context.CancelFunc
	copyDone     chan internal.Direction
	pending      collections.Queue[internal.Request[V]]
	// channels
	inbox chan internal.Envelope
	// log
	log *log.Entry
}

// NewSet builds a stopped set; Start spawns the first generation's root and
// the routing goroutine.
func NewSet[V constraints.Ordered](name string) *Set[V] {
	logger := log.WithFields(log.Fields{"set": name})
	logger.Logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	instance := &Set[V]{
		collecting: false,
		pending:    collections.NewQueue[internal.Request[V]](),
		inbox:      make(chan internal.Envelope, DefaultMailboxSize),
		log:        logger,
	}
	instance.SimpleService = service.NewSimpleService(instance)
	return instance
}

func (s *Set[V]) OnStart(ctx context.Context) error {
	genCtx, genCancel := context.WithCancel(ctx)
	s.root = internal.NewRoot[V](genCtx, s.log)
	s.genCancel = genCancel
	go s.receiveRoutine(ctx)
	s.log.Info("set started")
	return nil
}

func (s *Set[V]) OnStop() {
	// node goroutines die with the service context; buffered submissions
	// that never reached a node are abandoned without a reply
	s.log.Info("set stopped")
}

// Insert submits an insertion of elem. The requester hears back on replyTo
// with OperationFinished carrying id once the element is guaranteed present.
func (s *Set[V]) Insert(replyTo chan<- commons.Reply, id commons.OpID, elem V) error {
	return s.submit(internal.Request[V]{Op: internal.OpInsert, ReplyTo: replyTo, ID: id, Elem: elem})
}

// Contains submits a membership query for elem; the answer arrives on
// replyTo as ContainsResult carrying id.
func (s *Set[V]) Contains(replyTo chan<- commons.Reply, id commons.OpID, elem V) error {
	return s.submit(internal.Request[V]{Op: internal.OpContains, ReplyTo: replyTo, ID: id, Elem: elem})
}

// Remove submits a removal of elem. The requester hears back on replyTo with
// OperationFinished carrying id once the element is guaranteed absent.
func (s *Set[V]) Remove(replyTo chan<- commons.Reply, id commons.OpID, elem V) error {
	return s.submit(internal.Request[V]{Op: internal.OpRemove, ReplyTo: replyTo, ID: id, Elem: elem})
}

// GC asks the set to rebuild itself without removed entries. It is a hint:
// a set already rebuilding drops the request. GC never affects the outcome
// of any operation, only the memory footprint.
func (s *Set[V]) GC() error {
	if !s.IsRunning() {
		return service.ErrServiceAlreadyStopped
	}
	s.inbox <- internal.Collect{}
	return nil
}

func (s *Set[V]) submit(req internal.Request[V]) error {
	if !s.IsRunning() {
		return service.ErrServiceAlreadyStopped
	}
	s.inbox <- req
	return nil
}

func (s *Set[V]) receiveRoutine(ctx context.Context) {
	for {
		select {
		case env := <-s.inbox:
			s.handle(ctx, env)
		case <-s.copyDone: // nil unless a collection is in flight
			s.finishCollect()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Set[V]) handle(ctx context.Context, env internal.Envelope) {
	switch msg := env.(type) {
	case internal.Request[V]:
		operationsReceived.WithLabelValues(msg.Op.String()).Inc()
		if s.collecting {
			s.pending.Push(msg)
			operationsBuffered.Inc()
			return
		}
		s.root.Inbox <- msg
	case internal.Collect:
		if s.collecting {
			gcIgnored.Inc()
			s.log.Debug("collection already in flight, ignoring request")
			return
		}
		s.startCollect(ctx)
	default:
		s.log.Warn("set received unroutable message")
	}
}

// startCollect spawns the next generation's root and tells the current root
// to copy its live values over. Until the root reports back, every incoming
// operation is parked in the pending queue; the copy traffic is the only
// thing flowing through the old tree, so it drains to a standstill.
func (s *Set[V]) startCollect(ctx context.Context) {
	genCtx, genCancel := context.WithCancel(ctx)
	s.nextRoot = internal.NewRoot[V](genCtx, s.log)
	s.nextCancel = genCancel
	s.copyDone = make(chan internal.Direction, 1)
	s.root.Inbox <- internal.CopyTo[V]{Target: s.nextRoot, Dir: internal.Left, Done: s.copyDone}
	s.collecting = true
	s.collectStart = time.Now()
	gcRuns.Inc()
	s.log.Debug("collection started")
}

// finishCollect runs when the old root reports the copy complete. At that
// point the old tree holds no unprocessed messages, so cancelling its
// generation context cannot lose work. The parked operations are replayed
// into the new root in arrival order before anything newer is accepted.
func (s *Set[V]) finishCollect() {
	s.genCancel()
	s.root = s.nextRoot
	s.genCancel = s.nextCancel
	s.nextRoot = nil
	s.nextCancel = nil
	s.copyDone = nil
	s.collecting = false
	replayed := s.pending.Size()
	for s.pending.Size() > 0 {
		s.root.Inbox <- s.pending.Pop()
	}
	took := time.Since(s.collectStart)
	gcDuration.Observe(took.Seconds())
	gcReplayed.Observe(float64(replayed))
	s.log.WithFields(log.Fields{"replayed": replayed, "took": took}).Debug("collection finished")
}
