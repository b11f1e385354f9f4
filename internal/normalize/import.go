package normalize

import (
	"github.com/haierkeys/fast-note-board/internal/domain"
)

// NormalizeImportRecord builds a note from a loosely typed import record.
// Unknown fields are ignored and store-assigned fields (id, owner_id,
// created_at, updated_at) are dropped; the note is always owned by ownerID.
func NormalizeImportRecord(rec map[string]any, ownerID string) *domain.Note {
	n := &domain.Note{
		OwnerID:  ownerID,
		Title:    NormalizeText(rec["title"]),
		Content:  NormalizeText(rec["content"]),
		Tags:     importTags(rec["tags"]),
		Pinned:   importBool(rec["pinned"]),
		IsPublic: importBool(rec["is_public"]),
		Color:    NormalizeColor(importString(rec["color"])),
		Image:    importString(rec["image"]),
	}
	return n
}

func importTags(v any) []string {
	switch t := v.(type) {
	case string:
		return ParseTags(t)
	case []any:
		pieces := make([]string, 0, len(t))
		for _, item := range t {
			pieces = append(pieces, NormalizeText(item))
		}
		return normalizeTags(splitTags(pieces...))
	case []string:
		return normalizeTags(splitTags(t...))
	default:
		return []string{}
	}
}

func importBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func importString(v any) string {
	if s, ok := v.(string); ok {
		return NormalizeText(s)
	}
	return ""
}
