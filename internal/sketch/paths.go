package sketch

// AddPath commits a finished freehand path and returns its id.
func (s *Store) AddPath(d, color string, width float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := Path{ID: s.newID(), D: d, Color: color, Width: width}
	s.doc.Paths = append(s.doc.Paths, p)
	s.commit(Event{Kind: EvtPathAdd, ID: p.ID, Path: &p, Index: len(s.doc.Paths) - 1})
	return p.ID
}

func (s *Store) DeletePath(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Paths, id, pathID)
	if i < 0 {
		s.stale("delete path", id)
		return false
	}
	p := s.doc.Paths[i]
	s.doc.Paths = removeAt(s.doc.Paths, i)
	s.commit(Event{Kind: EvtPathDelete, ID: id, Path: &p, Index: i})
	return true
}

func (s *Store) ClearPaths() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := Snapshot{Paths: s.doc.Paths}
	s.doc.Paths = []Path{}
	s.commit(Event{Kind: EvtClearPaths, Prior: &prior})
}
