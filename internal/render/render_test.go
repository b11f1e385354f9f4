package render

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestBuildCard_Ownership(t *testing.T) {
	n := &domain.Note{ID: "n1", OwnerID: "u1", Title: "Idea", Pinned: true, UpdatedAt: now.Add(-3 * time.Minute)}

	own := BuildCard(n, "u1", now, time.UTC)
	assert.True(t, own.Owned)
	assert.True(t, own.Pinned)
	assert.Equal(t, []Action{ActionEdit, ActionPin, ActionDelete}, own.Actions)
	assert.Equal(t, "3 minutes ago", own.Timestamp)

	other := BuildCard(n, "u2", now, time.UTC)
	assert.False(t, other.Owned)
	assert.False(t, other.Pinned, "pin indicator is only shown to the owner")
	assert.Empty(t, other.Actions)

	anon := BuildCard(n, "", now, time.UTC)
	assert.False(t, anon.Owned)
	assert.Empty(t, anon.Actions)
}

func TestBuildCard_Fields(t *testing.T) {
	n := &domain.Note{
		ID:        "n1",
		Title:     "  ",
		Content:   "",
		Image:     "data:image/jpeg;base64,AAAA",
		Tags:      []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		IsPublic:  true,
		CreatedAt: time.Date(2025, 12, 24, 18, 30, 0, 0, time.UTC),
	}
	c := BuildCard(n, "", now, time.UTC)
	assert.Equal(t, UntitledPlaceholder, c.Title)
	assert.True(t, c.Untitled)
	assert.Empty(t, c.Content)
	assert.True(t, c.HasImage)
	assert.Len(t, c.Tags, 8)
	assert.True(t, c.Public)
	assert.Equal(t, "#4f46e5", c.Color)
	assert.Equal(t, "2025-12-24 18:30", c.Timestamp)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "", FormatTimestamp(time.Time{}, now, time.UTC))
	assert.Equal(t, "2 hours ago", FormatTimestamp(now.Add(-2*time.Hour), now, time.UTC))
	assert.Equal(t, "6 days ago", FormatTimestamp(now.Add(-6*24*time.Hour), now, time.UTC))
	assert.Equal(t, "2026-03-06 12:00", FormatTimestamp(now.Add(-8*24*time.Hour), now, time.UTC))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2026-03-06 21:00", FormatTimestamp(now.Add(-8*24*time.Hour), now, tokyo))
}

func TestBuild_HeaderAndEmptyState(t *testing.T) {
	l := Build(Input{Total: 5, ViewMode: domain.ViewPublic, SearchQuery: " zzz ", HasQuery: true, Now: now})
	assert.Equal(t, 0, l.Shown)
	assert.Equal(t, `Public · 0 of 5 notes matching "zzz"`, l.Header)
	assert.Equal(t, `No notes match "zzz".`, l.Empty)
	assert.NotNil(t, l.Cards)

	l = Build(Input{ViewMode: domain.ViewMine, Now: now})
	assert.Contains(t, l.Empty, "You have no notes yet")

	l = Build(Input{ViewMode: domain.ViewPublic, Now: now})
	assert.Equal(t, "No public notes yet.", l.Empty)

	notes := []*domain.Note{{ID: "a", Title: "A"}}
	l = Build(Input{Notes: notes, Total: 1, ViewMode: domain.ViewMine, Now: now})
	assert.Equal(t, "Mine · 1 of 1 note", l.Header)
	assert.Empty(t, l.Empty)
	require.Len(t, l.Cards, 1)
}

func TestFprint(t *testing.T) {
	notes := []*domain.Note{
		{ID: "n1", OwnerID: "u1", Title: "Groceries", Content: "milk\neggs\nbread\nbutter", Tags: []string{"home"}, Pinned: true, UpdatedAt: now},
		{ID: "n2", OwnerID: "u2", Title: "", IsPublic: true, CreatedAt: now},
	}
	l := Build(Input{Notes: notes, Total: 2, ViewMode: domain.ViewMine, CurrentUser: "u1", Now: now})

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, l))
	out := buf.String()
	assert.Contains(t, out, "Mine · 2 of 2 notes")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "edit | pin | delete")
	assert.Contains(t, out, "Untitled")
	assert.Contains(t, out, "public")
	assert.NotContains(t, out, "butter", "list view previews the first lines only")

	buf.Reset()
	require.NoError(t, FprintCard(&buf, l.Cards[0]))
	assert.Contains(t, buf.String(), "butter")
}

func TestFprintJSON(t *testing.T) {
	l := Build(Input{Notes: []*domain.Note{{ID: "n1", Title: "T"}}, Total: 1, ViewMode: domain.ViewPublic, Now: now})

	var buf bytes.Buffer
	require.NoError(t, FprintJSON(&buf, l))

	var back DisplayList
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, l.Header, back.Header)
	require.Len(t, back.Cards, 1)
	assert.Equal(t, "n1", back.Cards[0].ID)
	assert.Equal(t, []Action{}, back.Cards[0].Actions)
}

// 非所有者的卡片永远没有操作入口，也不显示置顶
func TestBuildCard_NonOwnerNeverHasAffordances(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("non-owned cards are read-only", prop.ForAll(
		func(owner, viewer string, pinned bool, tagCount int) bool {
			tags := make([]string, tagCount)
			for i := range tags {
				tags[i] = fmt.Sprintf("t%d", i)
			}
			n := &domain.Note{ID: "x", OwnerID: owner, Pinned: pinned, Tags: tags}
			c := BuildCard(n, viewer, now, time.UTC)
			if len(c.Tags) > 8 {
				return false
			}
			if owner == viewer && viewer != "" {
				return c.Owned && c.Pinned == pinned && len(c.Actions) == 3
			}
			return !c.Owned && !c.Pinned && len(c.Actions) == 0
		},
		gen.OneConstOf("", "u1", "u2"),
		gen.OneConstOf("", "u1", "u2"),
		gen.Bool(),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a\nb", preview("a\nb", 3))
	assert.Equal(t, "a\nb\nc …", preview("a\nb\nc\nd", 3))
}
