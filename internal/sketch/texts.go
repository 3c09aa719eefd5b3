package sketch

func (s *Store) Text(id string) (Text, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Texts, id, textID)
	if i < 0 {
		return Text{}, false
	}
	return s.doc.Texts[i], true
}

func (s *Store) AddText(x, y float64, text, color string, fontSize float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Text{ID: s.newID(), X: x, Y: y, Text: text, Color: color, FontSize: fontSize}
	s.doc.Texts = append(s.doc.Texts, t)
	s.commit(Event{Kind: EvtTextAdd, ID: t.ID, Text: &t, Index: len(s.doc.Texts) - 1})
	return t.ID
}

func (s *Store) MoveText(id string, x, y float64) bool {
	return s.updateText(EvtTextMove, id, func(t *Text) { t.X, t.Y = x, y })
}

func (s *Store) RecolorText(id, color string) bool {
	return s.updateText(EvtTextRecolor, id, func(t *Text) { t.Color = color })
}

func (s *Store) ResizeTextFont(id string, fontSize float64) bool {
	return s.updateText(EvtTextResizeFont, id, func(t *Text) { t.FontSize = fontSize })
}

func (s *Store) updateText(kind EventKind, id string, apply func(*Text)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Texts, id, textID)
	if i < 0 {
		s.stale(string(kind), id)
		return false
	}
	prior := s.doc.Texts[i]
	apply(&s.doc.Texts[i])
	s.commit(Event{Kind: kind, ID: id, Text: &prior, Index: i})
	return true
}

// DuplicateText copies a text, shifted by DuplicateOffset, and returns the
// id of the copy. It returns "" when the original is gone.
func (s *Store) DuplicateText(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Texts, id, textID)
	if i < 0 {
		s.stale("duplicate text", id)
		return ""
	}
	dup := s.doc.Texts[i]
	dup.ID = s.newID()
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	s.doc.Texts = append(s.doc.Texts, dup)
	s.commit(Event{Kind: EvtTextDuplicate, ID: dup.ID, Text: &dup, Index: len(s.doc.Texts) - 1})
	return dup.ID
}

func (s *Store) DeleteText(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Texts, id, textID)
	if i < 0 {
		s.stale("delete text", id)
		return false
	}
	t := s.doc.Texts[i]
	s.doc.Texts = removeAt(s.doc.Texts, i)
	s.commit(Event{Kind: EvtTextDelete, ID: id, Text: &t, Index: i})
	return true
}

func (s *Store) ClearTexts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := Snapshot{Texts: s.doc.Texts}
	s.doc.Texts = []Text{}
	s.commit(Event{Kind: EvtClearTexts, Prior: &prior})
}
