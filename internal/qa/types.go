package qa

import "qaconv/internal/record"

// File is a QA score file for one case.
type File struct {
	Pairs []Pair `json:"pairs"`
}

// Pair is one graded question/answer pair referencing a respondent's answer.
type Pair struct {
	ID         string              `json:"id"`
	Respondent record.RespondentID `json:"respondent"`
	Question   string              `json:"question"`
	Answer     string              `json:"answer,omitempty"`
	Score      int                 `json:"score"`
}

// Thresholds are the named score cut-offs used to grade pairs.
type Thresholds struct {
	// GoodScore is the minimum score counted as good.
	GoodScore int
	// PerfectScore is the score counted as perfect; zero means MaxScore.
	PerfectScore int
	// MaxScore is the top of the scale; zero means the highest score in the file.
	MaxScore int
}

// DefaultGoodScore is the "good or perfect" cut-off.
const DefaultGoodScore = 2

// DefaultThresholds returns the conventional thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{GoodScore: DefaultGoodScore}
}

// Grade classifies a pair's score.
type Grade string

const (
	GradePerfect Grade = "perfect"
	GradeGood    Grade = "good"
	GradeBelow   Grade = "below"
)

// PairResult is the outcome for one pair.
type PairResult struct {
	ID       string
	Score    int
	Grade    Grade
	Problems []string
}

// Report summarizes a QA file evaluated against its case record.
type Report struct {
	Pairs   []PairResult
	Total   int
	Perfect int
	// Good includes perfect pairs.
	Good    int
	Below   int
	Invalid int
}
