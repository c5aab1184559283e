package seeder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDemo_EmbeddedData(t *testing.T) {
	d, err := loadDemo(demoYAML)
	require.NoError(t, err)
	require.NotEmpty(t, d.Listings)
	require.NotEmpty(t, d.Profiles)

	inactive := 0
	for _, l := range d.Listings {
		assert.NotEmpty(t, l.Title, l.Key)
		assert.NotEmpty(t, l.RequiredSkills, l.Key)
		if l.Active != nil && !*l.Active {
			inactive++
		}
	}
	assert.Equal(t, 1, inactive)
	assert.Len(t, Defaults(), 2)
}

func TestLoadDemo_RejectsDuplicateKeys(t *testing.T) {
	_, err := loadDemo([]byte(`
listings:
  - key: a
    title: One
profiles:
  - key: a
`))
	assert.ErrorContains(t, err, `duplicate demo key "a"`)

	_, err = loadDemo([]byte("listings:\n  - title: no key\n"))
	assert.Error(t, err)
}

func TestDemoID_Stable(t *testing.T) {
	assert.Equal(t, DemoID("google-backend"), DemoID("google-backend"))
	assert.NotEqual(t, DemoID("google-backend"), DemoID("acme-frontend"))
}

func TestMissingColumns(t *testing.T) {
	existing := map[string]struct{}{"id": {}, "title": {}}

	assert.NoError(t, missingColumns("listings", existing, []string{"id", "title"}))

	err := missingColumns("listings", existing, []string{"id", "is_active", "created_at"})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.ErrorContains(t, err, "listings.is_active, listings.created_at")
}
