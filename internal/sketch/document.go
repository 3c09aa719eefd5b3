// Package sketch holds the shared tabletop board: the replicated document,
// the mutations a participant can apply to it and the local undo log.
package sketch

type Path struct {
	ID    string  `json:"id"`
	D     string  `json:"d"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Image is stacked back to front by its position in Snapshot.Images.
// Height stays nil until the client reports the natural aspect.
type Image struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height *float64 `json:"height"`
}

type Text struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Color    string  `json:"color"`
	FontSize float64 `json:"fontSize"`
}

// AttachedData links a token to a participant's character.
type AttachedData struct {
	UserID        int    `json:"userId"`
	CharacterName string `json:"characterName"`
	UserName      string `json:"userName"`
}

type Token struct {
	ID               string        `json:"id"`
	X                float64       `json:"x"`
	Y                float64       `json:"y"`
	Color            string        `json:"color"`
	AttachedData     *AttachedData `json:"attachedData"`
	TooltipPlacement string        `json:"tooltipPlacement"`
}

// RosterUser is one entry of the externally supplied participant list.
type RosterUser = AttachedData

// Snapshot is the replicated part of the document. The undo log is never
// part of it.
type Snapshot struct {
	Displayed bool    `json:"displayed"`
	Paths     []Path  `json:"paths"`
	Images    []Image `json:"images"`
	Texts     []Text  `json:"texts"`
	Tokens    []Token `json:"tokens"`
}

// Empty returns a snapshot with non-nil lists so it encodes as [] rather
// than null.
func Empty() Snapshot {
	return Snapshot{
		Paths:  []Path{},
		Images: []Image{},
		Texts:  []Text{},
		Tokens: []Token{},
	}
}

// Clone deep-copies s so the copy shares no slices or pointers with it.
// Nil lists come back empty.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Displayed: s.Displayed,
		Paths:     append([]Path{}, s.Paths...),
		Images:    make([]Image, len(s.Images)),
		Texts:     append([]Text{}, s.Texts...),
		Tokens:    make([]Token, len(s.Tokens)),
	}
	for i, img := range s.Images {
		out.Images[i] = img.clone()
	}
	for i, tok := range s.Tokens {
		out.Tokens[i] = tok.clone()
	}
	return out
}

func (img Image) clone() Image {
	if img.Height != nil {
		h := *img.Height
		img.Height = &h
	}
	return img
}

func (t Token) clone() Token {
	if t.AttachedData != nil {
		a := *t.AttachedData
		t.AttachedData = &a
	}
	return t
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

func pathID(p Path) string   { return p.ID }
func imageID(i Image) string { return i.ID }
func textID(t Text) string   { return t.ID }
func tokenID(t Token) string { return t.ID }

func insertAt[T any](items []T, i int, v T) []T {
	if i < 0 || i > len(items) {
		i = len(items)
	}
	items = append(items, v)
	copy(items[i+1:], items[i:])
	items[i] = v
	return items
}

func removeAt[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}
