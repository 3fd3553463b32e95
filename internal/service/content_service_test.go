package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/transfer"
)

func TestBuildGeneratePromptSelectsTemplate(t *testing.T) {
	topicOnly := BuildGeneratePrompt("launch", "linkedin", "upbeat", "")
	assert.Equal(t, BuildGeneratePrompt("launch", "linkedin", "upbeat", "  \n"), topicOnly)
	assert.NotContains(t, topicOnly, "research")

	withContext := BuildGeneratePrompt("launch", "linkedin", "upbeat", "Market grew 12%")
	assert.NotEqual(t, topicOnly, withContext)
	assert.Contains(t, withContext, "Market grew 12%")
	assert.Contains(t, withContext, `"launch"`)

	assert.Equal(t, withContext, BuildGeneratePrompt("launch", "linkedin", "upbeat", "Market grew 12%"))
}

func newContentFixture() (*contentService, *fakeGenerator, *memCredentials, *memResearchRepo) {
	gen := &fakeGenerator{text: "generated"}
	creds := newMemCredentials()
	repo := &memResearchRepo{}
	cfg := config.Config{AI: config.AI{CredentialName: "openai"}, Research: config.Research{HistoryLimit: 2}}
	return NewContentService(gen, creds, repo, cfg).(*contentService), gen, creds, repo
}

func TestGenerate(t *testing.T) {
	svc, gen, creds, _ := newContentFixture()
	ctx := context.Background()

	_, err := svc.Generate(ctx, operatorID, &transfer.GenerateRequest{Topic: "launch", Platform: "linkedin"})
	assert.True(t, errors.Is(err, models.ErrMissingCredential))
	assert.Empty(t, gen.prompts)

	creds.secrets[credentialKey(operatorID, "openai")] = "sk-test"
	text, err := svc.Generate(ctx, operatorID, &transfer.GenerateRequest{Topic: "launch", Platform: "linkedin", Context: "notes"})
	require.NoError(t, err)
	assert.Equal(t, "generated", text)
	assert.Equal(t, "sk-test", gen.secrets[0])
	assert.Equal(t, BuildGeneratePrompt("launch", "linkedin", "professional", "notes"), gen.prompts[0])

	_, err = svc.Generate(ctx, operatorID, &transfer.GenerateRequest{Platform: "linkedin"})
	assert.True(t, errors.Is(err, models.ErrValidation))

	gen.err = errors.New("503")
	_, err = svc.Generate(ctx, operatorID, &transfer.GenerateRequest{Topic: "launch", Platform: "linkedin"})
	assert.True(t, errors.Is(err, models.ErrProvider))
}

func TestResearchPersistsHistory(t *testing.T) {
	svc, gen, creds, repo := newContentFixture()
	creds.secrets[credentialKey(operatorID, "openai")] = "sk-test"
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		gen.text = "about " + q
		result, err := svc.Research(ctx, operatorID, &transfer.ResearchRequest{Query: q})
		require.NoError(t, err)
		assert.Equal(t, "global", result.Market)
		assert.NotZero(t, result.ID)
	}
	assert.True(t, strings.Contains(gen.prompts[0], `"first"`))

	history, err := svc.History(ctx, operatorID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.limit)
	require.Len(t, history, 2)
	assert.Equal(t, "third", history[0].Query)
	assert.Equal(t, "about second", history[1].Result)

	_, err = svc.Research(ctx, operatorID, &transfer.ResearchRequest{Query: " "})
	assert.True(t, errors.Is(err, models.ErrValidation))
}
