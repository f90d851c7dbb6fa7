package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

func TestEvidenceExtractor_EmptyText(t *testing.T) {
	providers := runtime.NewProviders()
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	_, err := extractor.Extract(context.Background(), "  \n ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEvidenceExtractor_DegradedWithoutRecogniser(t *testing.T) {
	providers := runtime.NewProviders()
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	text := "On 15/01/2024 the accused took ₹75,000 from the complainant. A receipt no. R-102 was issued."
	bundle, err := extractor.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.True(t, bundle.Degraded)
	require.Len(t, bundle.Dates, 1)
	assert.Equal(t, "15/01/2024", bundle.Dates[0].Value)
	require.Len(t, bundle.MonetaryAmounts, 1)
	assert.Equal(t, "₹75,000", bundle.MonetaryAmounts[0].Value)
	assert.NotEmpty(t, bundle.Documents)
	assert.Empty(t, bundle.Witnesses)
}

func TestEvidenceExtractor_DegradedOnRecogniserError(t *testing.T) {
	providers := runtime.NewProviders()
	recogniser := mocks.NewMockEntityRecogniser()
	recogniser.Err = context.DeadlineExceeded
	providers.SetEntityRecogniser(recogniser)
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	bundle, err := extractor.Extract(context.Background(), "payment of Rs 5,000 made")
	require.NoError(t, err)
	assert.True(t, bundle.Degraded)
	assert.Len(t, bundle.MonetaryAmounts, 1)
}

func TestEvidenceExtractor_WitnessCueWindow(t *testing.T) {
	providers := runtime.NewProviders()
	providers.SetEntityRecogniser(mocks.NewMockEntityRecogniser().
		Add(domain.EntityPerson, "Ramesh", "Suresh"))
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	// Ramesh has a witness cue nearby; Suresh appears far from any cue.
	text := "The witness Ramesh saw the incident at the market. " +
		"Later that month the shop was transferred and its new owner Suresh renovated the premises entirely."
	bundle, err := extractor.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.False(t, bundle.Degraded)
	require.Len(t, bundle.Witnesses, 1)
	assert.Equal(t, "Ramesh", bundle.Witnesses[0].Value)
	assert.Contains(t, bundle.Witnesses[0].Context, "witness")
}

func TestEvidenceExtractor_DeduplicatesKeepingFirstMention(t *testing.T) {
	providers := runtime.NewProviders()
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	text := "First demand of ₹75,000 was made in January. A second demand of ₹75,000 followed in March."
	bundle, err := extractor.Extract(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, bundle.MonetaryAmounts, 1)
	assert.Contains(t, bundle.MonetaryAmounts[0].Context, "January")
}

func TestEvidenceExtractor_SummaryCountsMatchLists(t *testing.T) {
	providers := runtime.NewProviders()
	providers.SetEntityRecogniser(mocks.NewMockEntityRecogniser().
		Add(domain.EntityPerson, "Ramesh").
		Add(domain.EntityLocation, "Mumbai"))
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	text := "The witness Ramesh saw the accused in Mumbai on 15/01/2024 taking Rs. 5,000. " +
		"CCTV footage and an invoice no. 44/A support the complaint."
	bundle, err := extractor.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, len(bundle.Witnesses), bundle.Summary.TotalWitnesses)
	assert.Equal(t, len(bundle.Documents), bundle.Summary.TotalDocuments)
	assert.Equal(t, len(bundle.Dates), bundle.Summary.TotalDates)
	assert.Equal(t, len(bundle.Locations), bundle.Summary.TotalLocations)
	assert.Equal(t, len(bundle.MonetaryAmounts), bundle.Summary.TotalMonetary)
	assert.Equal(t, 1, bundle.Summary.TotalLocations)
	assert.GreaterOrEqual(t, bundle.Summary.TotalDocuments, 2)
}

func TestEvidenceExtractor_MoneyNeedsWordBoundary(t *testing.T) {
	providers := runtime.NewProviders()
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	bundle, err := extractor.Extract(context.Background(), "He owned three cars 5,000 km apart.")
	require.NoError(t, err)
	assert.Empty(t, bundle.MonetaryAmounts)
}

func TestEvidenceExtractor_TextualDates(t *testing.T) {
	providers := runtime.NewProviders()
	extractor := NewEvidenceExtractor(providers, EvidenceExtractorConfig{})

	bundle, err := extractor.Extract(context.Background(),
		"The agreement was signed on 12th March 2023 and notarised on Apr 2, 2023.")
	require.NoError(t, err)
	assert.Len(t, bundle.Dates, 2)
}
