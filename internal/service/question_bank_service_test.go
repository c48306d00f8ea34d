package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"
	"quiz_backend/internal/testutil"
	"quiz_backend/internal/util"
)

func countQuestions(t *testing.T, svc *QuestionBankService) int64 {
	var n int64
	require.NoError(t, svc.DB.Model(&model.Question{}).Count(&n).Error)
	return n
}

func TestQuestionBank_EmbeddedLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	source, err := NewBankSource(&config.StorageConfig{BankSource: util.BankSourceEmbedded})
	require.NoError(t, err)
	svc := NewQuestionBankService(db, source)

	report, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, report.Created)
	assert.Equal(t, 0, report.Skipped)

	report, err = svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 20, report.Skipped)
	assert.Equal(t, int64(20), countQuestions(t, svc))

	var hello model.Question
	require.NoError(t, db.Where("text = ?", `What is the French word for "hello"?`).First(&hello).Error)
	assert.Equal(t, "Bonjour", hello.Option1)
	assert.Equal(t, 1, hello.CorrectOption)
	assert.Equal(t, model.TopicFrench, hello.Topic)
}

func TestQuestionBank_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	testutil.SeedQuestions(t, db, 3)
	svc := NewQuestionBankService(db, &EmbeddedBankSource{File: defaultBankFile})

	require.NoError(t, svc.SeedIfEmpty(ctx))
	assert.Equal(t, int64(3), countQuestions(t, svc))

	empty := NewQuestionBankService(testutil.NewDB(t), &EmbeddedBankSource{File: defaultBankFile})
	require.NoError(t, empty.SeedIfEmpty(ctx))
	assert.Equal(t, int64(20), countQuestions(t, empty))
}

func TestQuestionBank_InvalidEntryRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
topic: FR
questions:
  - text: What is the French word for "cheese"?
    options: [Fromage, Pain, Lait, Beurre]
    correct: 1
  - text: Broken
    options: [a, b, c, d]
    correct: 7
`), 0o644))

	source, err := NewBankSource(&config.StorageConfig{BankSource: util.BankSourceLocal, BankPath: path})
	require.NoError(t, err)
	svc := NewQuestionBankService(testutil.NewDB(t), source)

	_, err = svc.Load(ctx)
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)
	assert.Equal(t, int64(0), countQuestions(t, svc))
}

func TestNewBankSource(t *testing.T) {
	_, err := NewBankSource(&config.StorageConfig{BankSource: util.BankSourceLocal})
	assert.Error(t, err)

	_, err = NewBankSource(&config.StorageConfig{BankSource: "ftp"})
	assert.Error(t, err)

	src, err := NewBankSource(&config.StorageConfig{
		BankSource:    util.BankSourceMinio,
		BankPath:      "banks/french.yaml",
		MinioEndpoint: "localhost:9000",
		MinioBucket:   "quiz",
	})
	require.NoError(t, err)
	assert.Equal(t, "minio:quiz/banks/french.yaml", src.Name())
}
