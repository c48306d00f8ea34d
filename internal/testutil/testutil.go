// Package testutil 测试用的数据库、redis 与数据构造
package testutil

import (
	"fmt"
	"testing"

	"quiz_backend/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的内存 sqlite
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", gofakeit.UUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Question{}, &model.QuizResult{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func CreateUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := &model.User{
		Username: gofakeit.Username() + gofakeit.DigitN(4),
		Email:    gofakeit.Email(),
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedQuestions 插入 n 道题，第 i 道的正确选项为 i%4+1
func SeedQuestions(t *testing.T, db *gorm.DB, n int) []model.Question {
	t.Helper()
	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := model.Question{
			Topic:         model.TopicFrench,
			Text:          fmt.Sprintf("What is the French word for %q?", gofakeit.Noun()+fmt.Sprint(i)),
			Option1:       gofakeit.Word(),
			Option2:       gofakeit.Word(),
			Option3:       gofakeit.Word(),
			Option4:       gofakeit.Word(),
			CorrectOption: i%4 + 1,
		}
		require.NoError(t, db.Create(&q).Error)
		questions = append(questions, q)
	}
	return questions
}
