package model

// HistoryStats 用户历史成绩统计；没有记录时三个指针为 nil
type HistoryStats struct {
	Average       *float64 `json:"average"`
	Highest       *int     `json:"highest"`
	Lowest        *int     `json:"lowest"`
	TotalAttempts int64    `json:"totalAttempts"`
}
