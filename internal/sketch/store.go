package sketch

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DuplicateOffset is how far a duplicated text or token is shifted from
// the original, in logical units.
const DuplicateOffset = 20

// Publisher receives every snapshot produced by a local mutation. It is
// called with the store locked and must not block.
type Publisher interface {
	Publish(Snapshot)
}

type PublisherFunc func(Snapshot)

func (f PublisherFunc) Publish(s Snapshot) { f(s) }

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.pub = p }
}

// WithIDGenerator replaces uuid.NewString, mostly for tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// Store owns the participant's copy of the sketch. All mutations go
// through it so the undo log and outbound sync stay consistent.
type Store struct {
	mu     sync.Mutex
	doc    Snapshot
	log    Log
	pub    Publisher
	newID  func() string
	logger *zap.Logger
}

func NewStore(initial Snapshot, opts ...Option) *Store {
	s := &Store{
		doc:    initial.Clone(),
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SetPublisher(p Publisher) {
	s.mu.Lock()
	s.pub = p
	s.mu.Unlock()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Events()
}

func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Len()
}

// Replace installs a snapshot received from another participant. The undo
// log is left alone and nothing is published back.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	s.doc = snap.Clone()
	s.mu.Unlock()
}

// LoadTemplate installs a saved snapshot as a fresh document: the undo log
// is discarded and the result is shared with the room.
func (s *Store) LoadTemplate(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = snap.Clone()
	s.log.Reset()
	s.publish()
}

// SetDisplayed toggles visibility for non-editors. It is not undoable.
func (s *Store) SetDisplayed(displayed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Displayed == displayed {
		return
	}
	s.doc.Displayed = displayed
	s.publish()
}

// ClearSketch empties every item list with a single undoable event.
func (s *Store) ClearSketch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := s.doc.Clone()
	s.doc.Paths = []Path{}
	s.doc.Images = []Image{}
	s.doc.Texts = []Text{}
	s.doc.Tokens = []Token{}
	s.commit(Event{Kind: EvtClearAll, Prior: &prior})
}

func (s *Store) commit(e Event) {
	s.log.Append(e)
	s.publish()
}

func (s *Store) publish() {
	if s.pub != nil {
		s.pub.Publish(s.doc.Clone())
	}
}

// stale logs a mutation whose target is gone, typically deleted by a
// remote participant in the meantime.
func (s *Store) stale(op, id string) {
	s.logger.Debug("sketch: ignoring mutation on missing item",
		zap.String("op", op), zap.String("id", id))
}
