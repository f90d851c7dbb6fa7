package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-core/internal/adapters/driven/corpus"
	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/verdict-core/internal/runtime"
)

const cheatingFacts = "The accused committed cheating and fraud against the complainant, " +
	"inducing by deception and dishonest inducement a delivery of property and money on a false promise."

// newTestProviders wires the deterministic embedder and the embedded corpus.
func newTestProviders(t *testing.T) (*runtime.Providers, *mocks.MockEmbeddingService) {
	t.Helper()

	embedder := mocks.NewMockEmbeddingService()
	providers := runtime.NewProviders()
	providers.SetEmbeddingService(embedder)

	index, err := corpus.NewIndex(embedder)
	require.NoError(t, err)
	providers.SetCorpusIndexes(index, index)

	return providers, embedder
}

func TestClassifier_EmptyText(t *testing.T) {
	providers, _ := newTestProviders(t)
	classifier := NewClassifier(providers, ClassifierConfig{})

	_, err := classifier.Classify(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClassifier_NoEmbeddingService(t *testing.T) {
	providers := runtime.NewProviders()
	classifier := NewClassifier(providers, ClassifierConfig{})

	_, err := classifier.Classify(context.Background(), "some case text")
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestClassifier_CheatingCase(t *testing.T) {
	providers, _ := newTestProviders(t)
	classifier := NewClassifier(providers, ClassifierConfig{})

	result, err := classifier.Classify(context.Background(), cheatingFacts)
	require.NoError(t, err)

	assert.Equal(t, domain.DomainCriminal, result.Domain)
	assert.Equal(t, "Fraud/Cheating", result.PrimaryIssue)
	assert.GreaterOrEqual(t, result.DomainConfidence, 0.35)
	assert.LessOrEqual(t, result.DomainConfidence, 1.0)
	assert.NotEmpty(t, result.RankedPredictions)

	// Predictions come back in confidence order.
	for i := 1; i < len(result.RankedPredictions); i++ {
		assert.GreaterOrEqual(t,
			result.RankedPredictions[i-1].Confidence,
			result.RankedPredictions[i].Confidence)
	}
}

func TestClassifier_BelowFloorIsUnclassified(t *testing.T) {
	providers, _ := newTestProviders(t)
	classifier := NewClassifier(providers, ClassifierConfig{})

	// Vocabulary shared with no exemplar.
	result, err := classifier.Classify(context.Background(), "zxqv plmtr wibble kroost vlanth")
	require.NoError(t, err)

	assert.Equal(t, domain.DomainUnclassified, result.Domain)
	assert.True(t, result.Unclassified())
	assert.Less(t, result.DomainConfidence, 0.35)
	assert.Empty(t, result.PrimaryIssue)
	assert.Empty(t, result.RankedPredictions)
}

func TestClassifier_SecondaryIssueCap(t *testing.T) {
	providers, _ := newTestProviders(t)
	classifier := NewClassifier(providers, ClassifierConfig{SecondaryIssues: 2})

	result, err := classifier.Classify(context.Background(), cheatingFacts)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.SecondaryIssues), 2)
	assert.NotContains(t, result.SecondaryIssues, result.PrimaryIssue)
}

func TestClassifier_Deterministic(t *testing.T) {
	providers, _ := newTestProviders(t)
	classifier := NewClassifier(providers, ClassifierConfig{})

	first, err := classifier.Classify(context.Background(), cheatingFacts)
	require.NoError(t, err)
	second, err := classifier.Classify(context.Background(), cheatingFacts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifier_EmbeddingFailure(t *testing.T) {
	providers, embedder := newTestProviders(t)
	classifier := NewClassifier(providers, ClassifierConfig{})

	embedder.FailNext()
	_, err := classifier.Classify(context.Background(), cheatingFacts)
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
