package util

const TimeFormat = "2006-01-02 15:04"

const (
	BankSourceEmbedded = "embedded"
	BankSourceLocal    = "local"
	BankSourceMinio    = "minio"
)

const (
	LoginPath = "/login/"
	QuizPath  = "/quiz/"
)
