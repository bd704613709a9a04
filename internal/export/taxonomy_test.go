package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapperRejectsEmptyTable(t *testing.T) {
	_, err := NewMapper(nil)
	require.Error(t, err)

	_, err = NewMapper(map[string]string{"  ": "value"})
	require.Error(t, err)
}

func TestRemapSingleMatch(t *testing.T) {
	m, err := NewMapper(map[string]string{"Serums": "Face Serums"})
	require.NoError(t, err)

	assert.Equal(t, "Face Serums", m.Remap("Best Serums 2026"))
	assert.Equal(t, "", m.Remap("Cleansers"))
	assert.Equal(t, "", m.Remap(""))
}

func TestRemapDeduplicatesAndSorts(t *testing.T) {
	m, err := NewMapper(map[string]string{
		"Toners": "Toners & Astringents",
		"Serums": "Face Serums",
		"Essence": "Face Serums",
	})
	require.NoError(t, err)

	// Two keys hitting the same canonical value collapse to one entry and
	// the result set comes out alphabetized regardless of match order.
	assert.Equal(t, "Face Serums, Toners & Astringents", m.Remap("Toners, Serums and Essence"))
}

func TestRemapEscapesPunctuationInKeys(t *testing.T) {
	m, err := NewMapper(map[string]string{
		"Eye Care / Eye and Lips": "Eye Creams",
		"Bath & Shower (Body)":    "Bath & Body",
	})
	require.NoError(t, err)

	assert.Equal(t, "Eye Creams", m.Remap("Eye Care / Eye and Lips"))
	assert.Equal(t, "Bath & Body", m.Remap("Bath & Shower (Body)"))
}

func TestRemapLongerKeyWins(t *testing.T) {
	m, err := NewMapper(map[string]string{
		"Moisturizers":     "Face Moisturizers",
		"Gel Moisturizers": "Gel Creams",
	})
	require.NoError(t, err)

	assert.Equal(t, "Gel Creams", m.Remap("Gel Moisturizers"))
}

func TestDefaultTablesChain(t *testing.T) {
	categories, err := NewMapper(DefaultCategoryTaxonomy())
	require.NoError(t, err)
	types, err := NewMapper(DefaultTaxonomyTypes())
	require.NoError(t, err)

	path := categories.Remap("Facial Cleansers")
	assert.Equal(t, "Health & Beauty > Personal Care > Cosmetics > Skin Care > Facial Cleansers", path)
	assert.Equal(t, "Facial Cleansers", types.Remap(path))
}
