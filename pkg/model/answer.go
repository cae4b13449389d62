package model

//go:generate go run github.com/dmarkham/enumer -type Answer -trimprefix Answer -transform lower -json -sql -output answer.gen.go

// Answer is a yes/no reply stored as "sim" or "nao".
type Answer int

const (
	AnswerNao Answer = iota
	AnswerSim
)

// ParseAnswer accepts the stored spellings plus the accented "não".
func ParseAnswer(s string) (Answer, error) {
	if s == "não" || s == "Não" {
		return AnswerNao, nil
	}
	return AnswerString(s)
}

// Bool reports whether the answer is "sim".
func (a Answer) Bool() bool {
	return a == AnswerSim
}
