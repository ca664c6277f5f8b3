package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechnicalTerm_Normalize(t *testing.T) {
	t.Parallel()

	term := TechnicalTerm{
		Hebrew:   "  ברז ",
		Russian:  " кран",
		Context:  Ptr("   "),
		Category: Ptr(" plumbing "),
		Tags:     []string{"water", " valve", "water", ""},
	}
	term.Normalize()

	assert.Equal(t, "ברז", term.Hebrew)
	assert.Equal(t, "кран", term.Russian)
	assert.Nil(t, term.Context)
	require.NotNil(t, term.Category)
	assert.Equal(t, "plumbing", *term.Category)
	assert.Equal(t, []string{"valve", "water"}, term.Tags)
}

func TestTechnicalTerm_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := TechnicalTerm{
		Hebrew:     "ברז",
		Russian:    "кран",
		Notes:      Ptr("note"),
		SynonymsHe: []string{"מגוף"},
		Tags:       []string{"water"},
	}
	cp := orig.Clone()
	cp.SynonymsHe[0] = "changed"
	cp.Tags[0] = "changed"
	*cp.Notes = "changed"

	assert.Equal(t, "מגוף", orig.SynonymsHe[0])
	assert.Equal(t, "water", orig.Tags[0])
	assert.Equal(t, "note", *orig.Notes)
}

func TestTechnicalTerm_EqualAndSameContent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := TechnicalTerm{Hebrew: "ברז", Russian: "кран", Tags: []string{"b", "a"}, LastUpdated: ts}
	b := TechnicalTerm{Hebrew: "ברז", Russian: "кран", Tags: []string{"a", "b"}, LastUpdated: ts.In(time.FixedZone("IDT", 3*3600))}

	assert.True(t, a.Equal(&b), "tag order and time zone must not matter")

	b.LastUpdated = ts.Add(time.Second)
	assert.False(t, a.Equal(&b))
	assert.True(t, a.SameContent(&b))

	b.Category = Ptr("x")
	assert.False(t, a.SameContent(&b))
}

func TestSearchQuery_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query SearchQuery
		input string
		want  bool
	}{
		{"exact hit", SearchQuery{Text: "ברז", ExactMatch: true}, "ברז", true},
		{"exact miss on longer", SearchQuery{Text: "ברז", ExactMatch: true}, "ברז כדורי", false},
		{"substring hit", SearchQuery{Text: "ברז"}, "ברז כדורי", true},
		{"case sensitive", SearchQuery{Text: "Кран"}, "кран шаровой", false},
		{"empty substring matches all", SearchQuery{Text: ""}, "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.query.Matches(tt.input))
		})
	}
}

func TestDiffTerms(t *testing.T) {
	t.Parallel()

	before := TechnicalTerm{Hebrew: "ברז", Russian: "кран", Tags: []string{"water"}}
	after := TechnicalTerm{Hebrew: "ברז", Russian: "вентиль", Category: Ptr("plumbing"), Tags: []string{"water"}}

	t.Run("addition", func(t *testing.T) {
		t.Parallel()
		changes := DiffTerms(nil, &after)
		require.Len(t, changes, 1)
		assert.Equal(t, ChangeAddition, changes[0].Kind)
		assert.Equal(t, FieldTerm, changes[0].Field)
		assert.Equal(t, "вентиль", *changes[0].NewValue)
	})

	t.Run("deletion", func(t *testing.T) {
		t.Parallel()
		changes := DiffTerms(&before, nil)
		require.Len(t, changes, 1)
		assert.Equal(t, ChangeDeletion, changes[0].Kind)
		assert.Equal(t, "кран", *changes[0].OldValue)
	})

	t.Run("field level modification", func(t *testing.T) {
		t.Parallel()
		changes := DiffTerms(&before, &after)
		require.Len(t, changes, 2)
		assert.Equal(t, "russian", changes[0].Field)
		assert.Equal(t, "кран", *changes[0].OldValue)
		assert.Equal(t, "вентиль", *changes[0].NewValue)
		assert.Equal(t, "category", changes[1].Field)
		assert.Nil(t, changes[1].OldValue)
	})

	t.Run("no change", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, DiffTerms(&before, &before))
	})
}
