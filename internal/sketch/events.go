package sketch

type EventKind string

const (
	EvtPathAdd    EventKind = "path-add"
	EvtPathDelete EventKind = "path-delete"

	EvtImageAdd      EventKind = "image-add"
	EvtImageMove     EventKind = "image-move"
	EvtImageResize   EventKind = "image-resize"
	EvtImageForward  EventKind = "image-forward"
	EvtImageBackward EventKind = "image-backward"
	EvtImageDelete   EventKind = "image-delete"

	EvtTextAdd        EventKind = "text-add"
	EvtTextMove       EventKind = "text-move"
	EvtTextRecolor    EventKind = "text-recolor"
	EvtTextResizeFont EventKind = "text-resize-font"
	EvtTextDuplicate  EventKind = "text-duplicate"
	EvtTextDelete     EventKind = "text-delete"

	EvtTokenAdd       EventKind = "token-add"
	EvtTokenMove      EventKind = "token-move"
	EvtTokenAttach    EventKind = "token-attach"
	EvtTokenUnattach  EventKind = "token-unattach"
	EvtTokenDuplicate EventKind = "token-duplicate"
	EvtTokenRecolor   EventKind = "token-recolor"
	EvtTokenDelete    EventKind = "token-delete"
	EvtTokenSpawn     EventKind = "token-spawn"

	EvtClearPaths  EventKind = "clear-paths"
	EvtClearImages EventKind = "clear-images"
	EvtClearTexts  EventKind = "clear-texts"
	EvtClearTokens EventKind = "clear-tokens"
	EvtClearAll    EventKind = "clear-all"
)

// Event records one local mutation with what is needed to invert it.
//
// Single-item kinds carry the item as it was before the mutation (or the
// added item for *-add/duplicate) and its list index. Clear kinds carry
// the whole prior list, or the whole prior snapshot for clear-all.
type Event struct {
	Kind  EventKind
	ID    string
	Index int

	Path  *Path
	Image *Image
	Text  *Text
	Token *Token

	IDs   []string
	Prior *Snapshot
}

// Log is the participant-local undo history. It is never replicated.
type Log struct {
	events []Event
}

func (l *Log) Append(e Event) { l.events = append(l.events, e) }

func (l *Log) Pop() (Event, bool) {
	if len(l.events) == 0 {
		return Event{}, false
	}
	e := l.events[len(l.events)-1]
	l.events = l.events[:len(l.events)-1]
	return e, true
}

func (l *Log) Len() int { return len(l.events) }

func (l *Log) Events() []Event {
	return append([]Event(nil), l.events...)
}

func (l *Log) Reset() { l.events = nil }
