package biomass

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

// Defaults applied to survey files that omit a field.
const (
	DefaultNDVI   = 0.5
	DefaultAreaHa = 1.0
)

// MetadataURIPrefix prefixes content-addressed metadata pointers.
const MetadataURIPrefix = "sha256:"

type surveyFile struct {
	AvgNDVI *float64 `json:"avg_ndvi"`
	AreaHa  *float64 `json:"area_ha"`
	Images  []string `json:"images"`
}

// ParseSurvey decodes a drone survey summary, applying defaults for missing
// fields, and validates it.
func ParseSurvey(data []byte) (interfaces.Survey, error) {
	survey, err := DecodeSurvey(data)
	if err != nil {
		return interfaces.Survey{}, err
	}
	if err := Validate(survey.AvgNDVI, survey.AreaHa); err != nil {
		return interfaces.Survey{}, err
	}
	return survey, nil
}

// DecodeSurvey decodes a survey document and applies the defaults for
// missing fields without range checks.
func DecodeSurvey(data []byte) (interfaces.Survey, error) {
	var raw surveyFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return interfaces.Survey{}, fmt.Errorf("%w: invalid survey document: %v", interfaces.ErrValidation, err)
	}

	survey := interfaces.Survey{
		AvgNDVI: DefaultNDVI,
		AreaHa:  DefaultAreaHa,
		Images:  raw.Images,
	}
	if raw.AvgNDVI != nil {
		survey.AvgNDVI = *raw.AvgNDVI
	}
	if raw.AreaHa != nil {
		survey.AreaHa = *raw.AreaHa
	}
	if survey.Images == nil {
		survey.Images = []string{}
	}
	return survey, nil
}

func LoadSurvey(path string) (interfaces.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return interfaces.Survey{}, fmt.Errorf("failed to read survey: %w", err)
	}
	return ParseSurvey(data)
}

// ParseImages splits a comma-separated image list, dropping blanks.
func ParseImages(list string) []string {
	images := []string{}
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			images = append(images, part)
		}
	}
	return images
}

// MetadataDocument is the off-chain evidence summary referenced by a project.
type MetadataDocument struct {
	Source               string   `json:"source"`
	AvgNDVI              float64  `json:"avg_ndvi"`
	AreaHa               float64  `json:"area_ha"`
	EstimatedBiomassTons uint64   `json:"estimated_biomass_tons"`
	Images               []string `json:"images"`
}

// NewMetadataDocument builds the evidence summary for a validated survey.
func NewMetadataDocument(survey interfaces.Survey) (MetadataDocument, error) {
	estimate, err := Preview(survey.AvgNDVI, survey.AreaHa)
	if err != nil {
		return MetadataDocument{}, err
	}

	images := survey.Images
	if images == nil {
		images = []string{}
	}

	return MetadataDocument{
		Source:               "drone",
		AvgNDVI:              survey.AvgNDVI,
		AreaHa:               survey.AreaHa,
		EstimatedBiomassTons: estimate.Tons,
		Images:               images,
	}, nil
}

// Canonical encodes the document with keys in lexical order, byte for byte
// as the registry does before hashing.
func (d MetadataDocument) Canonical() ([]byte, error) {
	var w canonicalWriter
	w.b.WriteByte('{')

	w.key("area_ha", true)
	if err := w.float(d.AreaHa); err != nil {
		return nil, err
	}
	w.key("avg_ndvi", false)
	if err := w.float(d.AvgNDVI); err != nil {
		return nil, err
	}
	w.key("estimated_biomass_tons", false)
	w.uint(d.EstimatedBiomassTons)
	w.key("images", false)
	w.strings(d.Images)
	w.key("source", false)
	w.string(d.Source)

	w.b.WriteByte('}')
	return []byte(w.b.String()), nil
}

// URI returns the content-addressed pointer "sha256:<hex>" of the canonical document.
func (d MetadataDocument) URI() (string, error) {
	canonical, err := d.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return MetadataURIPrefix + hex.EncodeToString(sum[:]), nil
}

// SurveyPreview is what the dashboard shows before a survey is submitted.
type SurveyPreview struct {
	Estimate
	MetadataURI string `json:"metadata_uri"`
}

// PreviewSurvey computes the biomass estimate and metadata URI preview.
func PreviewSurvey(survey interfaces.Survey) (SurveyPreview, error) {
	doc, err := NewMetadataDocument(survey)
	if err != nil {
		return SurveyPreview{}, err
	}

	uri, err := doc.URI()
	if err != nil {
		return SurveyPreview{}, err
	}

	return SurveyPreview{
		Estimate:    Estimate{Factor: Factor(survey.AvgNDVI), Tons: doc.EstimatedBiomassTons},
		MetadataURI: uri,
	}, nil
}

// MetadataURI returns the content-addressed pointer for a survey's metadata document.
func MetadataURI(survey interfaces.Survey) (string, error) {
	doc, err := NewMetadataDocument(survey)
	if err != nil {
		return "", err
	}
	return doc.URI()
}
