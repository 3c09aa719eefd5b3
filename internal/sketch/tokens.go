package sketch

// Token layout used by SpawnTokens.
const (
	DefaultTooltipPlacement = "top"
	TokenSpacing            = 60
	spawnOrigin             = 100
	spawnRowWidth           = 1920 - 2*spawnOrigin
)

var tokenPalette = []string{
	"#e53935", "#1e88e5", "#43a047", "#fdd835",
	"#8e24aa", "#fb8c00", "#00acc1", "#6d4c41",
}

func (s *Store) Token(id string) (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Tokens, id, tokenID)
	if i < 0 {
		return Token{}, false
	}
	return s.doc.Tokens[i].clone(), true
}

// AddToken places a token, attached to a character when attached is not
// nil.
func (s *Store) AddToken(x, y float64, color string, attached *AttachedData) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Token{ID: s.newID(), X: x, Y: y, Color: color, TooltipPlacement: DefaultTooltipPlacement}
	if attached != nil {
		a := *attached
		t.AttachedData = &a
	}
	s.doc.Tokens = append(s.doc.Tokens, t)
	s.commit(Event{Kind: EvtTokenAdd, ID: t.ID, Token: &t, Index: len(s.doc.Tokens) - 1})
	return t.ID
}

// SpawnTokens adds one attached token per roster user, laid out in rows,
// as a single undoable event.
func (s *Store) SpawnTokens(roster []RosterUser) []string {
	if len(roster) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	perRow := spawnRowWidth/TokenSpacing + 1
	ids := make([]string, 0, len(roster))
	for i, u := range roster {
		a := u
		t := Token{
			ID:               s.newID(),
			X:                float64(spawnOrigin + (i%perRow)*TokenSpacing),
			Y:                float64(spawnOrigin + (i/perRow)*TokenSpacing),
			Color:            tokenPalette[i%len(tokenPalette)],
			AttachedData:     &a,
			TooltipPlacement: DefaultTooltipPlacement,
		}
		s.doc.Tokens = append(s.doc.Tokens, t)
		ids = append(ids, t.ID)
	}
	s.commit(Event{Kind: EvtTokenSpawn, IDs: ids})
	return append([]string(nil), ids...)
}

func (s *Store) MoveToken(id string, x, y float64) bool {
	return s.updateToken(EvtTokenMove, id, func(t *Token) { t.X, t.Y = x, y })
}

func (s *Store) AttachToken(id string, data AttachedData) bool {
	return s.updateToken(EvtTokenAttach, id, func(t *Token) { t.AttachedData = &data })
}

func (s *Store) UnattachToken(id string) bool {
	return s.updateToken(EvtTokenUnattach, id, func(t *Token) { t.AttachedData = nil })
}

func (s *Store) RecolorToken(id, color string) bool {
	return s.updateToken(EvtTokenRecolor, id, func(t *Token) { t.Color = color })
}

func (s *Store) updateToken(kind EventKind, id string, apply func(*Token)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Tokens, id, tokenID)
	if i < 0 {
		s.stale(string(kind), id)
		return false
	}
	prior := s.doc.Tokens[i].clone()
	apply(&s.doc.Tokens[i])
	s.commit(Event{Kind: kind, ID: id, Token: &prior, Index: i})
	return true
}

// DuplicateToken copies a token, attachment included, and returns the id
// of the copy. It returns "" when the original is gone.
func (s *Store) DuplicateToken(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Tokens, id, tokenID)
	if i < 0 {
		s.stale("duplicate token", id)
		return ""
	}
	dup := s.doc.Tokens[i].clone()
	dup.ID = s.newID()
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	s.doc.Tokens = append(s.doc.Tokens, dup)
	s.commit(Event{Kind: EvtTokenDuplicate, ID: dup.ID, Token: &dup, Index: len(s.doc.Tokens) - 1})
	return dup.ID
}

func (s *Store) DeleteToken(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Tokens, id, tokenID)
	if i < 0 {
		s.stale("delete token", id)
		return false
	}
	t := s.doc.Tokens[i]
	s.doc.Tokens = removeAt(s.doc.Tokens, i)
	s.commit(Event{Kind: EvtTokenDelete, ID: id, Token: &t, Index: i})
	return true
}

func (s *Store) ClearTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := Snapshot{Tokens: s.doc.Tokens}
	s.doc.Tokens = []Token{}
	s.commit(Event{Kind: EvtClearTokens, Prior: &prior})
}
