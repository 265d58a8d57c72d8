package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Bundles(t *testing.T) {
	c := Default()

	tests := []struct {
		role string
		want []string
	}{
		{"employee", []string{"laptop", "ID_card", "welcome_bag", "access_card"}},
		{"developer", []string{"laptop", "ID_card", "welcome_bag", "access_card", "development_tools"}},
		{"manager", []string{"laptop", "ID_card", "welcome_bag", "access_card", "parking_pass", "mobile_phone"}},
		{"intern", []string{"laptop", "ID_card", "temporary_badge"}},
		{"executive", []string{"laptop", "ID_card", "welcome_bag", "access_card", "parking_pass", "mobile_phone", "company_car"}},
		{"Developer", []string{"laptop", "ID_card", "welcome_bag", "access_card", "development_tools"}},
		{"astronaut", []string{"laptop", "ID_card", "welcome_bag", "access_card"}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Bundle(tt.role))
		})
	}
}

func TestBundle_ReturnsCopy(t *testing.T) {
	c := Default()
	b := c.Bundle("developer")
	b[0] = "typewriter"
	assert.Equal(t, "laptop", c.Bundle("developer")[0])
}

func TestCost(t *testing.T) {
	c := Default()
	assert.Equal(t, 1200.0, c.Cost("laptop"))
	assert.Equal(t, 1200.0, c.Cost("Gaming_Laptop"))
	assert.Equal(t, 50.0, c.Cost("welcome_bag"))
	assert.Equal(t, 25.0, c.Cost("ID_card"))
	assert.Equal(t, 25.0, c.Cost("company_car"))
}

func TestLoad_OverridesOnlyGivenSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bundles:
  Designer: [laptop, drawing_tablet]
costs:
  other: 40
delivery_window_days: 3
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"laptop", "drawing_tablet"}, c.Bundle("designer"))
	assert.Equal(t, []string{"laptop", "ID_card", "temporary_badge"}, c.Bundle("intern"))
	assert.Equal(t, 40.0, c.Cost("drawing_tablet"))
	assert.Equal(t, 1200.0, c.Cost("laptop"))
	assert.Equal(t, 3, c.DeliveryWindowDays)
}

func TestLoad_RejectsEmptyBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bundles:\n  intern: []\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `bundle for role "intern"`)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bundles: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse asset catalog")
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	c, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
