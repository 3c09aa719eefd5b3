package sketch

import "go.uber.org/zap"

// Undo reverts the most recent local mutation. It reports false when the
// log is empty. The reverted document is published, but undo itself is
// never recorded: there is no redo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.log.Pop()
	if !ok {
		return false
	}
	if !s.invert(e) {
		// The item was removed by a remote replace since; the event is
		// spent anyway.
		s.logger.Debug("sketch: undo target missing",
			zap.String("kind", string(e.Kind)), zap.String("id", e.ID))
		return true
	}
	s.publish()
	return true
}

func (s *Store) invert(e Event) bool {
	switch e.Kind {
	case EvtPathAdd:
		return removeByID(&s.doc.Paths, e.ID, pathID)
	case EvtPathDelete:
		return reinsert(&s.doc.Paths, e.Index, *e.Path, pathID)

	case EvtImageAdd:
		return removeByID(&s.doc.Images, e.ID, imageID)
	case EvtImageMove, EvtImageResize:
		return restore(s.doc.Images, e.Image.clone(), imageID)
	case EvtImageForward:
		return s.unswap(e.ID, -1)
	case EvtImageBackward:
		return s.unswap(e.ID, 1)
	case EvtImageDelete:
		return reinsert(&s.doc.Images, e.Index, e.Image.clone(), imageID)

	case EvtTextAdd, EvtTextDuplicate:
		return removeByID(&s.doc.Texts, e.ID, textID)
	case EvtTextMove, EvtTextRecolor, EvtTextResizeFont:
		return restore(s.doc.Texts, *e.Text, textID)
	case EvtTextDelete:
		return reinsert(&s.doc.Texts, e.Index, *e.Text, textID)

	case EvtTokenAdd, EvtTokenDuplicate:
		return removeByID(&s.doc.Tokens, e.ID, tokenID)
	case EvtTokenMove, EvtTokenAttach, EvtTokenUnattach, EvtTokenRecolor:
		return restore(s.doc.Tokens, e.Token.clone(), tokenID)
	case EvtTokenDelete:
		return reinsert(&s.doc.Tokens, e.Index, e.Token.clone(), tokenID)
	case EvtTokenSpawn:
		removed := false
		for _, id := range e.IDs {
			removed = removeByID(&s.doc.Tokens, id, tokenID) || removed
		}
		return removed

	case EvtClearPaths:
		s.doc.Paths = e.Prior.Clone().Paths
	case EvtClearImages:
		s.doc.Images = e.Prior.Clone().Images
	case EvtClearTexts:
		s.doc.Texts = e.Prior.Clone().Texts
	case EvtClearTokens:
		s.doc.Tokens = e.Prior.Clone().Tokens
	case EvtClearAll:
		prior := e.Prior.Clone()
		s.doc.Paths = prior.Paths
		s.doc.Images = prior.Images
		s.doc.Texts = prior.Texts
		s.doc.Tokens = prior.Tokens
	default:
		return false
	}
	return true
}

// unswap moves the image one step back to where a forward/backward swap
// took it from.
func (s *Store) unswap(id string, step int) bool {
	i := indexOf(s.doc.Images, id, imageID)
	j := i + step
	if i < 0 || j < 0 || j >= len(s.doc.Images) {
		return false
	}
	s.doc.Images[i], s.doc.Images[j] = s.doc.Images[j], s.doc.Images[i]
	return true
}

func removeByID[T any](items *[]T, id string, key func(T) string) bool {
	i := indexOf(*items, id, key)
	if i < 0 {
		return false
	}
	*items = removeAt(*items, i)
	return true
}

func restore[T any](items []T, prior T, key func(T) string) bool {
	i := indexOf(items, key(prior), key)
	if i < 0 {
		return false
	}
	items[i] = prior
	return true
}

// reinsert puts a deleted item back at its former index, unless an item
// with the same id has reappeared meanwhile.
func reinsert[T any](items *[]T, index int, item T, key func(T) string) bool {
	if indexOf(*items, key(item), key) >= 0 {
		return false
	}
	*items = insertAt(*items, index, item)
	return true
}
