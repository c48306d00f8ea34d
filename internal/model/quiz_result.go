package model

import (
	"fmt"
	"strconv"
	"time"
)

// FeedbackTier 根据得分百分比给出的评价等级
type FeedbackTier int

const (
	TierRetry FeedbackTier = iota
	TierGood
	TierExcellent
	TierGenius
)

var tierMessages = map[FeedbackTier]string{
	TierGenius:    "You are a genius!",
	TierExcellent: "Excellent work!",
	TierGood:      "Good job!",
	TierRetry:     "Please try again!",
}

func (t FeedbackTier) Message() string {
	return tierMessages[t]
}

// TierFor 从高到低匹配，下界包含
func TierFor(percentage float64) FeedbackTier {
	switch {
	case percentage >= 80:
		return TierGenius
	case percentage >= 60:
		return TierExcellent
	case percentage >= 40:
		return TierGood
	default:
		return TierRetry
	}
}

// QuizResult 一次已提交测验的得分记录，只插入不修改
type QuizResult struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	User           *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DateTaken      time.Time `gorm:"autoCreateTime;index" json:"dateTaken"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null;default:5" json:"totalQuestions"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

func (r *QuizResult) Percentage() float64 {
	return float64(r.Score) / float64(r.TotalQuestions) * 100
}

func (r *QuizResult) Feedback() FeedbackTier {
	return TierFor(r.Percentage())
}

func (r *QuizResult) String() string {
	who := strconv.FormatUint(uint64(r.UserID), 10)
	if r.User != nil && r.User.Username != "" {
		who = r.User.Username
	}
	return fmt.Sprintf("%s - %s - %d/%d", who, r.DateTaken.Format("2006-01-02 15:04"), r.Score, r.TotalQuestions)
}
