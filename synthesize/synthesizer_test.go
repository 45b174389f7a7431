package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/finsight/ai/mock"
	"github.com/poiesic/finsight/core"
)

// stubRetriever returns canned fragments or a canned error.
type stubRetriever struct {
	fragments []core.ContentFragment
	err       error

	lastCollection string
	lastQuery      string
	lastLimit      int
}

func (s *stubRetriever) Search(_ context.Context, collectionID, query string, limit int) ([]core.ContentFragment, error) {
	s.lastCollection = collectionID
	s.lastQuery = query
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.fragments, nil
}

func newsFragment(text string) core.ContentFragment {
	return core.ContentFragment{
		Text:       text,
		Kind:       core.SourceNews,
		EntityName: "Acme Corp",
		Origin:     "https://news.example.com/a",
		Title:      "Acme in the news",
	}
}

func TestNewSynthesizer(t *testing.T) {
	t.Run("nil retriever", func(t *testing.T) {
		_, err := NewSynthesizer(nil, mock.NewMockGenerator())
		assert.ErrorIs(t, err, ErrRetrieverRequired)
	})

	t.Run("nil generator is allowed", func(t *testing.T) {
		s, err := NewSynthesizer(&stubRetriever{}, nil)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("invalid retrieval limit", func(t *testing.T) {
		_, err := NewSynthesizer(&stubRetriever{}, nil, WithRetrievalLimit(0))
		assert.True(t, core.IsConfigurationError(err))
	})
}

func TestAnswerOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("grounded answer", func(t *testing.T) {
		retriever := &stubRetriever{fragments: []core.ContentFragment{
			newsFragment("Acme revenue grew 12% in Q3."),
			newsFragment("Acme raised full-year guidance."),
		}}
		generator := mock.NewMockGenerator()
		s, err := NewSynthesizer(retriever, generator)
		require.NoError(t, err)

		result, err := s.Answer(ctx, "company_acme_corp", "How did revenue develop?")
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeGroundedAnswered, result.Outcome)
		assert.True(t, result.Grounded)
		assert.Equal(t, mock.DefaultAnswer, result.Answer)
		assert.Equal(t, "Acme Corp", result.Entity)
		assert.Len(t, result.Sources, 2)
	})

	t.Run("ungrounded when nothing is retrieved", func(t *testing.T) {
		s, err := NewSynthesizer(&stubRetriever{}, mock.NewMockGenerator())
		require.NoError(t, err)

		result, err := s.Answer(ctx, "company_acme_corp", "How did revenue develop?")
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeUngrounded, result.Outcome)
		assert.False(t, result.Grounded)
		assert.Equal(t, "I couldn't find relevant information to answer your question.", result.Answer)
		assert.Empty(t, result.Sources)
	})

	t.Run("degraded without a generator, sources kept", func(t *testing.T) {
		retriever := &stubRetriever{fragments: []core.ContentFragment{
			newsFragment("Acme revenue grew 12% in Q3."),
		}}
		s, err := NewSynthesizer(retriever, nil)
		require.NoError(t, err)

		result, err := s.Answer(ctx, "company_acme_corp", "How did revenue develop?")
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeDegraded, result.Outcome)
		assert.True(t, result.Grounded, "retrieval succeeded even though generation did not")
		assert.Equal(t, "LLM model is not available. Please check the configuration.", result.Answer)
		assert.Len(t, result.Sources, 1)
	})

	t.Run("generation failure is an outcome, not an error", func(t *testing.T) {
		retriever := &stubRetriever{fragments: []core.ContentFragment{
			newsFragment("Acme revenue grew 12% in Q3."),
		}}
		generator := mock.NewMockGenerator()
		generator.GenerateFunc = func(context.Context, string) (string, error) {
			return "", errors.New("model timed out")
		}
		s, err := NewSynthesizer(retriever, generator)
		require.NoError(t, err)

		result, err := s.Answer(ctx, "company_acme_corp", "How did revenue develop?")
		require.NoError(t, err)
		assert.Equal(t, core.OutcomeGenerationFailed, result.Outcome)
		assert.True(t, result.Grounded)
		assert.Contains(t, result.Answer, "model timed out")
		assert.Len(t, result.Sources, 1)
	})

	t.Run("index failure propagates", func(t *testing.T) {
		indexErr := core.NewIndexUnavailableError("search", "company_acme_corp", errors.New("connection refused"))
		s, err := NewSynthesizer(&stubRetriever{err: indexErr}, mock.NewMockGenerator())
		require.NoError(t, err)

		_, err = s.Answer(ctx, "company_acme_corp", "How did revenue develop?")
		assert.True(t, core.IsIndexUnavailable(err))
	})

	t.Run("empty question", func(t *testing.T) {
		s, err := NewSynthesizer(&stubRetriever{}, nil)
		require.NoError(t, err)

		_, err = s.Answer(ctx, "company_acme_corp", "   ")
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})
}

func TestAnswerPrompt(t *testing.T) {
	ctx := context.Background()

	retriever := &stubRetriever{fragments: []core.ContentFragment{
		newsFragment("First fragment."),
		newsFragment("Second fragment."),
	}}
	generator := mock.NewMockGenerator()
	s, err := NewSynthesizer(retriever, generator, WithRetrievalLimit(7))
	require.NoError(t, err)

	_, err = s.Answer(ctx, "company_acme_corp", "What happened?")
	require.NoError(t, err)

	assert.Equal(t, 7, retriever.lastLimit)
	assert.Equal(t, "company_acme_corp", retriever.lastCollection)
	assert.Equal(t, "What happened?", retriever.lastQuery)

	prompt := generator.LastPrompt()
	assert.True(t, strings.HasPrefix(prompt, "<|system|>\n"))
	assert.Contains(t, prompt, "Analyze this data for Acme Corp")
	assert.Contains(t, prompt, "Context: First fragment.\n\nSecond fragment.")
	assert.Contains(t, prompt, "<|user|>\nWhat happened? for Acme Corp.<|end|>")
	assert.True(t, strings.HasSuffix(prompt, "<|assistant|>\n"))
}
