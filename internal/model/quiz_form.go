package model

import (
	"strconv"
)

const (
	MsgAnswerAll     = "Please answer all questions."
	MsgInvalidChoice = "Select a valid choice."
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// QuizField 对应一道题的单选字段
type QuizField struct {
	QuestionID uint      `json:"questionId"`
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Choices    [4]Choice `json:"choices"`
	Required   bool      `json:"required"`
	Selected   string    `json:"selected,omitempty"`
}

// QuizForm 按固定顺序排列的答题表单
type QuizForm struct {
	Fields []QuizField `json:"fields"`
}

// FormErrors 字段名 -> 错误信息，"" 键保存表单级错误
type FormErrors map[string]string

func (e FormErrors) Valid() bool {
	return len(e) == 0
}

// hasChoice 只接受与选项值完全一致的输入，"+3"、"03" 都无效
func (f *QuizField) hasChoice(v string) bool {
	for _, c := range f.Choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

func FieldName(questionID uint) string {
	return "question_" + strconv.FormatUint(uint64(questionID), 10)
}

func NewQuizForm(questions []Question) *QuizForm {
	form := &QuizForm{Fields: make([]QuizField, 0, len(questions))}
	for _, q := range questions {
		f := QuizField{
			QuestionID: q.ID,
			Name:       FieldName(q.ID),
			Label:      q.Text,
			Required:   true,
		}
		for i, opt := range q.Options() {
			f.Choices[i] = Choice{Value: strconv.Itoa(i + 1), Label: opt}
		}
		form.Fields = append(form.Fields, f)
	}
	return form
}

// Bind 记录提交的选项并校验；空表单永远无效
func (f *QuizForm) Bind(values map[string]string) FormErrors {
	errs := FormErrors{}
	if len(f.Fields) == 0 {
		errs[""] = MsgAnswerAll
		return errs
	}
	for i := range f.Fields {
		field := &f.Fields[i]
		v, ok := values[field.Name]
		if !ok || v == "" {
			if field.Required {
				errs[field.Name] = MsgAnswerAll
				errs[""] = MsgAnswerAll
			}
			continue
		}
		if !field.hasChoice(v) {
			errs[field.Name] = MsgInvalidChoice
			continue
		}
		field.Selected = v
	}
	return errs
}

// Answers 返回题目 id -> 选项序号，仅在 Bind 通过后有意义
func (f *QuizForm) Answers() map[uint]int {
	out := make(map[uint]int, len(f.Fields))
	for _, field := range f.Fields {
		n, err := strconv.Atoi(field.Selected)
		if err != nil {
			continue
		}
		out[field.QuestionID] = n
	}
	return out
}
