package sketch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: a store with predictable ids ("id-1", "id-2", ...) that records
// every published snapshot
func newTestStore(t *testing.T) (*Store, *[]Snapshot) {
	t.Helper()
	n := 0
	published := &[]Snapshot{}
	s := NewStore(Empty(),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithPublisher(PublisherFunc(func(snap Snapshot) {
			*published = append(*published, snap)
		})),
	)
	return s, published
}

func imageIDs(s Snapshot) []string {
	ids := make([]string, 0, len(s.Images))
	for _, img := range s.Images {
		ids = append(ids, img.ID)
	}
	return ids
}

func TestBackward_ScenarioTwoImages(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddImage("a.png", 0, 0, 100)
	b := s.AddImage("b.png", 0, 0, 100)
	require.Equal(t, []string{a, b}, imageIDs(s.Snapshot()))

	assert.True(t, s.BackwardImage(b))
	assert.Equal(t, []string{b, a}, imageIDs(s.Snapshot()))

	events := s.EventCount()
	assert.False(t, s.BackwardImage(b), "backward at the bottom is a no-op")
	assert.Equal(t, []string{b, a}, imageIDs(s.Snapshot()))
	assert.Equal(t, events, s.EventCount())
}

func TestForward_BoundaryAndWalkToTop(t *testing.T) {
	s, _ := newTestStore(t)
	ids := []string{
		s.AddImage("1", 0, 0, 10),
		s.AddImage("2", 0, 0, 10),
		s.AddImage("3", 0, 0, 10),
		s.AddImage("4", 0, 0, 10),
	}

	assert.False(t, s.ForwardImage(ids[3]), "forward at the top is a no-op")

	for i := 0; i < len(ids)-1; i++ {
		require.True(t, s.ForwardImage(ids[0]))
	}
	assert.Equal(t, []string{ids[1], ids[2], ids[3], ids[0]}, imageIDs(s.Snapshot()))
}

func TestMutationsOnMissingItemsAreIgnored(t *testing.T) {
	s, published := newTestStore(t)

	assert.False(t, s.DeletePath("nope"))
	assert.False(t, s.MoveImage("nope", 1, 1))
	assert.False(t, s.ForwardImage("nope"))
	assert.False(t, s.RecolorText("nope", "red"))
	assert.Equal(t, "", s.DuplicateText("nope"))
	assert.False(t, s.AttachToken("nope", AttachedData{UserID: 1}))
	assert.Equal(t, "", s.DuplicateToken("nope"))
	assert.False(t, s.DeleteToken("nope"))

	assert.Zero(t, s.EventCount())
	assert.Empty(t, *published)
}

func TestEveryMutationPublishes(t *testing.T) {
	s, published := newTestStore(t)
	id := s.AddText(10, 10, "hello", "#000", 16)
	s.MoveText(id, 20, 20)

	require.Len(t, *published, 2)
	last := (*published)[1]
	require.Len(t, last.Texts, 1)
	assert.Equal(t, 20.0, last.Texts[0].X)

	// published snapshots are copies
	last.Texts[0].X = 999
	txt, _ := s.Text(id)
	assert.Equal(t, 20.0, txt.X)
}

func TestDuplicateOffsetsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddToken(100, 100, "#fff", &AttachedData{UserID: 3, CharacterName: "Rook", UserName: "Bob"})
	dup := s.DuplicateToken(id)
	require.NotEmpty(t, dup)
	require.NotEqual(t, id, dup)

	tok, ok := s.Token(dup)
	require.True(t, ok)
	assert.Equal(t, 120.0, tok.X)
	assert.Equal(t, 120.0, tok.Y)
	require.NotNil(t, tok.AttachedData)
	assert.Equal(t, 3, tok.AttachedData.UserID)
}

func TestSpawnTokens(t *testing.T) {
	s, _ := newTestStore(t)
	roster := []RosterUser{
		{UserID: 1, CharacterName: "Kira", UserName: "Alice"},
		{UserID: 2, CharacterName: "Rook", UserName: "Bob"},
	}
	ids := s.SpawnTokens(roster)
	require.Len(t, ids, 2)
	assert.Equal(t, 1, s.EventCount())

	snap := s.Snapshot()
	require.Len(t, snap.Tokens, 2)
	assert.Equal(t, "Kira", snap.Tokens[0].AttachedData.CharacterName)
	assert.Equal(t, float64(spawnOrigin+TokenSpacing), snap.Tokens[1].X)

	assert.Nil(t, s.SpawnTokens(nil))
}

func TestSetImageHeight_FirstReportWins(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.AddImage("map.png", 0, 0, 400)

	assert.True(t, s.SetImageHeight(id, 300))
	assert.False(t, s.SetImageHeight(id, 100))

	img, _ := s.Image(id)
	require.NotNil(t, img.Height)
	assert.Equal(t, 300.0, *img.Height)
	assert.Equal(t, 1, s.EventCount(), "height report is not undoable")
}

func TestSetDisplayed_KeepsContent(t *testing.T) {
	s, published := newTestStore(t)
	s.AddPath("M 0 0 L 1 1", "#000", 2)
	s.SetDisplayed(true)
	s.SetDisplayed(false)
	s.SetDisplayed(false)

	snap := s.Snapshot()
	assert.False(t, snap.Displayed)
	assert.Len(t, snap.Paths, 1)
	assert.Len(t, *published, 3)
	assert.Equal(t, 1, s.EventCount())
}

func TestReplace_PreservesEventLog(t *testing.T) {
	s, published := newTestStore(t)
	s.AddPath("M 0 0", "#000", 2)
	s.AddText(0, 0, "a", "#000", 12)
	before := s.Events()
	sent := len(*published)

	remote := Empty()
	remote.Displayed = true
	remote.Tokens = []Token{{ID: "remote-token", X: 5, Y: 5}}
	s.Replace(remote)

	assert.Equal(t, before, s.Events())
	assert.Len(t, *published, sent, "inbound replace is not echoed")
	snap := s.Snapshot()
	assert.True(t, snap.Displayed)
	assert.Empty(t, snap.Paths)
	assert.Len(t, snap.Tokens, 1)
}

func TestLoadTemplate_ResetsEventLog(t *testing.T) {
	s, published := newTestStore(t)
	s.AddPath("M 0 0", "#000", 2)
	sent := len(*published)

	tpl := Empty()
	tpl.Texts = []Text{{ID: "t", Text: "Tavern"}}
	s.LoadTemplate(tpl)

	assert.Zero(t, s.EventCount())
	assert.Len(t, *published, sent+1)
	assert.False(t, s.Undo())
	assert.Len(t, s.Snapshot().Texts, 1)
}

func TestNilListsEncodeAsEmpty(t *testing.T) {
	s := NewStore(Snapshot{})
	snap := s.Snapshot()
	assert.NotNil(t, snap.Paths)
	assert.NotNil(t, snap.Images)
	assert.NotNil(t, snap.Texts)
	assert.NotNil(t, snap.Tokens)
}
