package biomass

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSurveyDefaults(t *testing.T) {
	survey, err := ParseSurvey([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultNDVI, survey.AvgNDVI)
	assert.Equal(t, DefaultAreaHa, survey.AreaHa)
	assert.NotNil(t, survey.Images)
	assert.Empty(t, survey.Images)
}

func TestParseSurveyExplicitZeroNDVI(t *testing.T) {
	survey, err := ParseSurvey([]byte(`{"avg_ndvi": 0, "area_ha": 3.5, "images": ["a.tif"]}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, survey.AvgNDVI)
	assert.Equal(t, 3.5, survey.AreaHa)
	assert.Equal(t, []string{"a.tif"}, survey.Images)
}

func TestParseSurveyRejectsInvalid(t *testing.T) {
	_, err := ParseSurvey([]byte(`{"avg_ndvi": 2}`))
	assert.ErrorIs(t, err, interfaces.ErrValidation)

	_, err = ParseSurvey([]byte(`not json`))
	assert.ErrorIs(t, err, interfaces.ErrValidation)
}

func TestDecodeSurveySkipsRangeChecks(t *testing.T) {
	survey, err := DecodeSurvey([]byte(`{"avg_ndvi": 2, "area_ha": -1}`))
	require.NoError(t, err)
	assert.Equal(t, 2.0, survey.AvgNDVI)
	assert.Equal(t, -1.0, survey.AreaHa)

	_, err = DecodeSurvey([]byte(`[1]`))
	assert.ErrorIs(t, err, interfaces.ErrValidation)
}

func TestLoadSurvey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"avg_ndvi": 0.6, "area_ha": 2}`), 0o600))

	survey, err := LoadSurvey(path)
	require.NoError(t, err)
	assert.Equal(t, 0.6, survey.AvgNDVI)
	assert.Equal(t, 2.0, survey.AreaHa)

	_, err = LoadSurvey(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseImages(t *testing.T) {
	assert.Equal(t, []string{"a.tif", "b.tif"}, ParseImages(" a.tif, ,b.tif ,"))
	assert.Equal(t, []string{}, ParseImages(""))
}

func TestMetadataURI(t *testing.T) {
	survey := interfaces.Survey{AvgNDVI: 0.5, AreaHa: 2, Images: []string{"img1.tif"}}

	doc, err := NewMetadataDocument(survey)
	require.NoError(t, err)
	assert.Equal(t, "drone", doc.Source)
	assert.Equal(t, uint64(10), doc.EstimatedBiomassTons)

	canonical, err := doc.Canonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"area_ha": 2.0, "avg_ndvi": 0.5, "estimated_biomass_tons": 10, "images": ["img1.tif"], "source": "drone"}`,
		string(canonical))

	uri, err := MetadataURI(survey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, MetadataURIPrefix))
	assert.Equal(t, "sha256:dbbac490fb7d83d9ae30899e0f5ed2f8de8ee53d7b2136c71a1f0b4f4f469312", uri)

	again, err := MetadataURI(survey)
	require.NoError(t, err)
	assert.Equal(t, uri, again)

	other, err := MetadataURI(interfaces.Survey{AvgNDVI: 0.6, AreaHa: 2})
	require.NoError(t, err)
	assert.NotEqual(t, uri, other)
}

func TestMetadataURIMatchesRegistry(t *testing.T) {
	// Sample survey shipped with the drone tooling.
	uri, err := MetadataURI(interfaces.Survey{AvgNDVI: 0.6, AreaHa: 2.5, Images: []string{"img1.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, "sha256:702efb84d778407f237e98242f3137c620e952bf5d55a9a6cf42f11f4f8a8541", uri)
}

func TestCanonicalEscapingAndExponents(t *testing.T) {
	doc := MetadataDocument{
		Source:               "drone",
		AvgNDVI:              0.00001,
		AreaHa:               1e16,
		EstimatedBiomassTons: 1,
		Images:               []string{"café \"x\"\n<>&", "\U0001F600"},
	}

	canonical, err := doc.Canonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"area_ha": 1e+16, "avg_ndvi": 1e-05, "estimated_biomass_tons": 1, "images": ["caf\u00e9 \"x\"\n<>&", "\ud83d\ude00"], "source": "drone"}`,
		string(canonical))

	uri, err := doc.URI()
	require.NoError(t, err)
	assert.Equal(t, "sha256:8ff7e78b49bf51be36838052efccb7d346b90d1bad12d4deddc2596e09206ae9", uri)
}

func TestPreviewSurvey(t *testing.T) {
	preview, err := PreviewSurvey(interfaces.Survey{AvgNDVI: 0.01, AreaHa: 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), preview.Tons)
	assert.InDelta(t, 0.1, preview.Factor, 1e-9)
	assert.NotEmpty(t, preview.MetadataURI)

	_, err = PreviewSurvey(interfaces.Survey{AvgNDVI: 0.5, AreaHa: 0})
	assert.ErrorIs(t, err, interfaces.ErrValidation)
}
