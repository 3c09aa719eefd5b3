package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seeded builds a board with a couple of items of every kind.
func seeded(t *testing.T) (*Store, map[string]string) {
	t.Helper()
	s, _ := newTestStore(t)
	ids := map[string]string{
		"path1":  s.AddPath("M 0 0 L 10 10", "#000", 2),
		"path2":  s.AddPath("M 5 5 L 6 6", "#f00", 4),
		"image1": s.AddImage("a.png", 0, 0, 100),
		"image2": s.AddImage("b.png", 50, 50, 200),
		"image3": s.AddImage("c.png", 80, 80, 300),
		"text1":  s.AddText(10, 20, "Inn", "#000", 14),
		"text2":  s.AddText(30, 40, "Crypt", "#333", 18),
		"token1": s.AddToken(100, 100, "#e53935", nil),
		"token2": s.AddToken(200, 200, "#1e88e5", &AttachedData{UserID: 2, CharacterName: "Rook", UserName: "Bob"}),
	}
	s.SetImageHeight(ids["image2"], 150)
	return s, ids
}

func TestUndo_InvertsEveryMutation(t *testing.T) {
	h := 90.0
	cases := []struct {
		name   string
		mutate func(s *Store, ids map[string]string)
	}{
		{"add path", func(s *Store, _ map[string]string) { s.AddPath("M 1 1", "#000", 1) }},
		{"delete path", func(s *Store, ids map[string]string) { s.DeletePath(ids["path1"]) }},
		{"clear paths", func(s *Store, _ map[string]string) { s.ClearPaths() }},

		{"add image", func(s *Store, _ map[string]string) { s.AddImage("d.png", 1, 1, 50) }},
		{"move image", func(s *Store, ids map[string]string) { s.MoveImage(ids["image1"], 300, 400) }},
		{"resize image", func(s *Store, ids map[string]string) { s.ResizeImage(ids["image2"], 10, 10, 120, &h) }},
		{"forward image", func(s *Store, ids map[string]string) { s.ForwardImage(ids["image1"]) }},
		{"backward image", func(s *Store, ids map[string]string) { s.BackwardImage(ids["image3"]) }},
		{"delete middle image", func(s *Store, ids map[string]string) { s.DeleteImage(ids["image2"]) }},
		{"clear images", func(s *Store, _ map[string]string) { s.ClearImages() }},

		{"add text", func(s *Store, _ map[string]string) { s.AddText(1, 1, "x", "#000", 10) }},
		{"move text", func(s *Store, ids map[string]string) { s.MoveText(ids["text1"], 99, 99) }},
		{"recolor text", func(s *Store, ids map[string]string) { s.RecolorText(ids["text1"], "#0f0") }},
		{"resize text font", func(s *Store, ids map[string]string) { s.ResizeTextFont(ids["text2"], 40) }},
		{"duplicate text", func(s *Store, ids map[string]string) { s.DuplicateText(ids["text2"]) }},
		{"delete text", func(s *Store, ids map[string]string) { s.DeleteText(ids["text1"]) }},
		{"clear texts", func(s *Store, _ map[string]string) { s.ClearTexts() }},

		{"add token", func(s *Store, _ map[string]string) { s.AddToken(1, 1, "#000", nil) }},
		{"move token", func(s *Store, ids map[string]string) { s.MoveToken(ids["token1"], 7, 8) }},
		{"attach token", func(s *Store, ids map[string]string) {
			s.AttachToken(ids["token1"], AttachedData{UserID: 9, CharacterName: "Vex", UserName: "Cid"})
		}},
		{"unattach token", func(s *Store, ids map[string]string) { s.UnattachToken(ids["token2"]) }},
		{"recolor token", func(s *Store, ids map[string]string) { s.RecolorToken(ids["token2"], "#000") }},
		{"duplicate token", func(s *Store, ids map[string]string) { s.DuplicateToken(ids["token2"]) }},
		{"delete token", func(s *Store, ids map[string]string) { s.DeleteToken(ids["token1"]) }},
		{"spawn tokens", func(s *Store, _ map[string]string) {
			s.SpawnTokens([]RosterUser{{UserID: 1}, {UserID: 2}, {UserID: 3}})
		}},
		{"clear tokens", func(s *Store, _ map[string]string) { s.ClearTokens() }},

		{"clear sketch", func(s *Store, _ map[string]string) { s.ClearSketch() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ids := seeded(t)
			before := s.Snapshot()
			events := s.EventCount()

			tc.mutate(s, ids)
			require.Equal(t, events+1, s.EventCount(), "mutation should record one event")
			require.NotEqual(t, before, s.Snapshot())

			require.True(t, s.Undo())
			assert.Equal(t, before, s.Snapshot())
			assert.Equal(t, events, s.EventCount(), "undo consumes without recording")
		})
	}
}

func TestUndo_EmptyLogIsNoop(t *testing.T) {
	s, published := newTestStore(t)
	assert.False(t, s.Undo())
	assert.Empty(t, *published)
}

func TestUndo_IsLIFO(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddText(0, 0, "a", "#000", 10)
	s.MoveText(id, 10, 10)
	s.MoveText(id, 20, 20)

	require.True(t, s.Undo())
	txt, _ := s.Text(id)
	assert.Equal(t, 10.0, txt.X)

	require.True(t, s.Undo())
	txt, _ = s.Text(id)
	assert.Equal(t, 0.0, txt.X)

	require.True(t, s.Undo())
	_, ok := s.Text(id)
	assert.False(t, ok)
}

func TestUndo_PublishesResult(t *testing.T) {
	s, published := newTestStore(t)
	s.AddPath("M 0 0", "#000", 1)
	require.Len(t, *published, 1)

	s.Undo()
	require.Len(t, *published, 2)
	assert.Empty(t, (*published)[1].Paths)
}

func TestAttachScenario(t *testing.T) {
	s, _ := newTestStore(t)
	tok := s.AddToken(10, 10, "#fff", nil)

	require.True(t, s.AttachToken(tok, AttachedData{UserID: 7, CharacterName: "Kira", UserName: "Alice"}))
	got, _ := s.Token(tok)
	require.NotNil(t, got.AttachedData)
	assert.Equal(t, AttachedData{UserID: 7, CharacterName: "Kira", UserName: "Alice"}, *got.AttachedData)

	require.True(t, s.Undo())
	got, _ = s.Token(tok)
	assert.Nil(t, got.AttachedData)
}

func TestClearSketchScenario(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddPath("M 0 0", "#000", 1)
	s.AddPath("M 1 1", "#000", 1)
	s.AddPath("M 2 2", "#000", 1)
	s.AddImage("a.png", 0, 0, 10)
	s.AddImage("b.png", 0, 0, 10)
	s.AddToken(0, 0, "#000", nil)
	before := s.Snapshot()

	s.ClearSketch()
	cleared := s.Snapshot()
	assert.Empty(t, cleared.Paths)
	assert.Empty(t, cleared.Images)
	assert.Empty(t, cleared.Texts)
	assert.Empty(t, cleared.Tokens)

	require.True(t, s.Undo())
	assert.Equal(t, before, s.Snapshot())
}

func TestUndo_AfterRemoteDeleteIsConsumed(t *testing.T) {
	s, published := newTestStore(t)
	id := s.AddText(0, 0, "a", "#000", 10)
	s.MoveText(id, 5, 5)
	sent := len(*published)

	s.Replace(Empty())

	assert.True(t, s.Undo())
	assert.Equal(t, 1, s.EventCount())
	assert.Len(t, *published, sent, "nothing changed, nothing to send")
	assert.Empty(t, s.Snapshot().Texts)
}
