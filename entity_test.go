package lineage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntity_DisplayName(t *testing.T) {
	e := Entity{ID: "D", Name: "Delta"}
	require.Equal(t, "Delta", e.DisplayName())

	e = Entity{ID: "D"}
	require.Equal(t, "D", e.DisplayName())
}

func TestEntity_Same(t *testing.T) {
	a := Entity{ID: "A", Name: "first"}
	b := Entity{ID: "A", Name: "second"}
	c := Entity{ID: "C"}

	require.True(t, a.Same(b))
	require.False(t, a.Same(c))
}

func TestRelationFunc(t *testing.T) {
	rel := RelationFunc(func(ancestorID, id string) bool {
		return ancestorID == id || (ancestorID == "A" && id == "B")
	})

	require.True(t, rel.DerivesFrom("A", "A"))
	require.True(t, rel.DerivesFrom("A", "B"))
	require.False(t, rel.DerivesFrom("B", "A"))
}

func TestLine_IDs(t *testing.T) {
	line := Line{{ID: "A"}, {ID: "C"}, {ID: "D"}}
	require.Equal(t, []string{"A", "C", "D"}, line.IDs())

	require.Empty(t, Line{}.IDs())
}

func TestLine_Names(t *testing.T) {
	line := Line{{ID: "A", Name: "Alpha"}, {ID: "C"}}
	require.Equal(t, []string{"Alpha", "C"}, line.Names())
}

func TestLine_Last(t *testing.T) {
	line := Line{{ID: "A"}, {ID: "C"}, {ID: "D"}}

	last, ok := line.Last()
	require.True(t, ok)
	require.Equal(t, "D", last.ID)

	_, ok = Line{}.Last()
	require.False(t, ok)
}

func TestLine_Contains(t *testing.T) {
	line := Line{{ID: "A"}, {ID: "C"}}

	require.True(t, line.Contains("A"))
	require.True(t, line.Contains("C"))
	require.False(t, line.Contains("D"))
	require.False(t, Line{}.Contains("A"))
}

func TestLine_Clone(t *testing.T) {
	line := Line{{ID: "A"}, {ID: "C"}}
	clone := line.Clone()

	require.Equal(t, line, clone)

	clone[0].ID = "X"
	require.Equal(t, "A", line[0].ID)

	require.Nil(t, Line(nil).Clone())
}

func TestLine_String(t *testing.T) {
	line := Line{{ID: "A"}, {ID: "C"}, {ID: "D"}}
	require.Equal(t, "A -> C -> D", line.String())

	require.Equal(t, "", Line{}.String())
}
