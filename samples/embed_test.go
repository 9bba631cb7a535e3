package samples

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	require.Equal(t, []string{"demo", "vehicles"}, List())
}

func TestHas(t *testing.T) {
	require.True(t, Has(Demo))
	require.True(t, Has(Vehicles))
	require.False(t, Has("nonexistent"))
}

func TestRead(t *testing.T) {
	data, err := Read(Demo)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestRead_Unknown(t *testing.T) {
	_, err := Read("nonexistent")
	require.Error(t, err)
}

func TestLoad_Demo(t *testing.T) {
	def, err := Load(Demo)
	require.NoError(t, err)

	require.Len(t, def.Hierarchy, 14)
	require.Len(t, def.Registry, 17)
}

func TestLoad_Vehicles(t *testing.T) {
	def, err := Load(Vehicles)
	require.NoError(t, err)

	reg, err := def.NewRegistry()
	require.NoError(t, err)
	require.Empty(t, reg.Verify(), "bundled definitions must verify clean")
	require.True(t, reg.DerivesFrom("vehicle", "amphibious"))
}

func TestMustLoad_Unknown(t *testing.T) {
	require.Panics(t, func() { MustLoad("nonexistent") })
}

func TestNewDemoRegistry(t *testing.T) {
	reg := NewDemoRegistry()

	require.Equal(t, 14, reg.DefinedCount())
	require.Equal(t, 17, reg.Len())
	require.Empty(t, reg.Verify())
	require.True(t, reg.DerivesFrom("F", "K"))
}
