package sketch

func (s *Store) Image(id string) (Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Images, id, imageID)
	if i < 0 {
		return Image{}, false
	}
	return s.doc.Images[i].clone(), true
}

// AddImage puts a new image on top of the stack. Its height is unknown
// until SetImageHeight is called.
func (s *Store) AddImage(url string, x, y, width float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := Image{ID: s.newID(), URL: url, X: x, Y: y, Width: width}
	s.doc.Images = append(s.doc.Images, img)
	s.commit(Event{Kind: EvtImageAdd, ID: img.ID, Image: &img, Index: len(s.doc.Images) - 1})
	return img.ID
}

// SetImageHeight records the height derived from the image's natural
// aspect. Only the first report counts and it is not undoable.
func (s *Store) SetImageHeight(id string, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Images, id, imageID)
	if i < 0 {
		s.stale("set image height", id)
		return false
	}
	if s.doc.Images[i].Height != nil {
		return false
	}
	s.doc.Images[i].Height = &height
	s.publish()
	return true
}

func (s *Store) MoveImage(id string, x, y float64) bool {
	return s.updateImage(EvtImageMove, id, func(img *Image) {
		img.X, img.Y = x, y
	})
}

func (s *Store) ResizeImage(id string, x, y, width float64, height *float64) bool {
	return s.updateImage(EvtImageResize, id, func(img *Image) {
		img.X, img.Y, img.Width = x, y, width
		if height != nil {
			h := *height
			img.Height = &h
		}
	})
}

func (s *Store) updateImage(kind EventKind, id string, apply func(*Image)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Images, id, imageID)
	if i < 0 {
		s.stale(string(kind), id)
		return false
	}
	prior := s.doc.Images[i].clone()
	apply(&s.doc.Images[i])
	s.commit(Event{Kind: kind, ID: id, Image: &prior, Index: i})
	return true
}

// ForwardImage swaps the image with the one right above it. The topmost
// image does not move.
func (s *Store) ForwardImage(id string) bool {
	return s.swapImage(EvtImageForward, id, 1)
}

// BackwardImage swaps the image with the one right below it. The
// bottommost image does not move.
func (s *Store) BackwardImage(id string) bool {
	return s.swapImage(EvtImageBackward, id, -1)
}

func (s *Store) swapImage(kind EventKind, id string, step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Images, id, imageID)
	if i < 0 {
		s.stale(string(kind), id)
		return false
	}
	j := i + step
	if j < 0 || j >= len(s.doc.Images) {
		return false
	}
	s.doc.Images[i], s.doc.Images[j] = s.doc.Images[j], s.doc.Images[i]
	s.commit(Event{Kind: kind, ID: id, Index: i})
	return true
}

func (s *Store) DeleteImage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.doc.Images, id, imageID)
	if i < 0 {
		s.stale("delete image", id)
		return false
	}
	img := s.doc.Images[i]
	s.doc.Images = removeAt(s.doc.Images, i)
	s.commit(Event{Kind: EvtImageDelete, ID: id, Image: &img, Index: i})
	return true
}

func (s *Store) ClearImages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := Snapshot{Images: s.doc.Images}
	s.doc.Images = []Image{}
	s.commit(Event{Kind: EvtClearImages, Prior: &prior})
}
