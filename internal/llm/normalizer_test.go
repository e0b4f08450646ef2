package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalbridge/dentalbridge/internal/llm"
)

type stubGenerator struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (s *stubGenerator) Generate(_ context.Context, model, _ string) (string, error) {
	s.calls = append(s.calls, model)
	if err, ok := s.errs[model]; ok {
		return "", err
	}
	return s.responses[model], nil
}

var cascadeModels = []string{"model-a", "model-b", "model-c"}

func TestNormalize_NoCredentialReturnsMockItem(t *testing.T) {
	gen := &stubGenerator{}
	n := llm.NewNormalizer(llm.Config{APIKey: "", Models: cascadeModels}, gen, nil)

	items := n.Normalize(context.Background(), "anything at all")

	require.Len(t, items, 1)
	assert.Equal(t, "D2740", items[0].Code)
	assert.Equal(t, "High", items[0].Urgency)
	assert.Empty(t, gen.calls, "no external call without a credential")
}

func TestNormalize_FirstNonEmptyResponseWins(t *testing.T) {
	gen := &stubGenerator{
		responses: map[string]string{
			"model-a": `[` + validItemJSON + `]`,
			"model-b": `[]`,
		},
	}
	n := llm.NewNormalizer(llm.Config{APIKey: "key", Models: cascadeModels}, gen, nil)

	items := n.Normalize(context.Background(), "invoice text")

	require.Len(t, items, 1)
	assert.Equal(t, []string{"model-a"}, gen.calls)
}

func TestNormalize_FailuresFallThroughCascade(t *testing.T) {
	gen := &stubGenerator{
		responses: map[string]string{
			"model-b": "   ",
			"model-c": `[` + validItemJSON + `]`,
		},
		errs: map[string]error{
			"model-a": errors.New("model unavailable"),
		},
	}
	n := llm.NewNormalizer(llm.Config{APIKey: "key", Models: cascadeModels}, gen, nil)

	items := n.Normalize(context.Background(), "invoice text")

	require.Len(t, items, 1)
	assert.Equal(t, cascadeModels, gen.calls)
}

func TestNormalize_AllCandidatesExhaustedYieldsEmpty(t *testing.T) {
	gen := &stubGenerator{
		errs: map[string]error{
			"model-a": errors.New("timeout"),
			"model-b": errors.New("timeout"),
			"model-c": errors.New("timeout"),
		},
	}
	n := llm.NewNormalizer(llm.Config{APIKey: "key", Models: cascadeModels}, gen, nil)

	items := n.Normalize(context.Background(), "invoice text")

	assert.Empty(t, items)
	assert.Equal(t, cascadeModels, gen.calls)
}
