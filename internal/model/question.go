package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Topic 题目所属主题
type Topic string

const (
	TopicFrench Topic = "FR"
)

// QuestionsPerQuiz 每次测验抽取的题目数
const QuestionsPerQuiz = 5

// MaxOptionLength 选项列的字符上限
const MaxOptionLength = 200

var topicLabels = map[Topic]string{
	TopicFrench: "French Language",
}

func (t Topic) Label() string {
	if l, ok := topicLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Topic) Valid() bool {
	_, ok := topicLabels[t]
	return ok
}

// swagger:model Question
type Question struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic         Topic  `gorm:"size:2;not null;default:'FR';index" json:"topic"`
	Text          string `gorm:"type:text;not null" json:"text"`
	Option1       string `gorm:"size:200;not null" json:"option1"`
	Option2       string `gorm:"size:200;not null" json:"option2"`
	Option3       string `gorm:"size:200;not null" json:"option3"`
	Option4       string `gorm:"size:200;not null" json:"option4"`
	CorrectOption int    `gorm:"not null" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

// Options 按 1..4 的顺序返回选项
func (q *Question) Options() [4]string {
	return [4]string{q.Option1, q.Option2, q.Option3, q.Option4}
}

func (q *Question) IsCorrect(option int) bool {
	return option == q.CorrectOption
}

func (q *Question) Validate() error {
	if !q.Topic.Valid() {
		return errors.New("unknown topic " + string(q.Topic))
	}
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is empty")
	}
	for _, o := range q.Options() {
		if strings.TrimSpace(o) == "" {
			return errors.New("question option is empty")
		}
		if utf8.RuneCountInString(o) > MaxOptionLength {
			return fmt.Errorf("question option is longer than %d characters", MaxOptionLength)
		}
	}
	if q.CorrectOption < 1 || q.CorrectOption > 4 {
		return errors.New("correct option must be between 1 and 4")
	}
	return nil
}
