package service

import (
	"math"

	"github.com/stemsi/exam-platform/internal/model"
)

// Score counts the submitted answers that match the key. The total is the
// number of submitted answers, not the size of the exam, so a partial
// submission shrinks the denominator. Ids missing from the key count toward
// the total but never score.
func Score(key model.AnswerKey, answers map[string]int) (score, total int) {
	for questionID, selected := range answers {
		if correct, ok := key[questionID]; ok && correct == selected {
			score++
		}
	}
	return score, len(answers)
}

// Percentage is round(score/total*100), or 0 when total is 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// GradeFor maps a percentage to a letter grade.
func GradeFor(percentage int) model.Grade {
	switch {
	case percentage >= 90:
		return model.GradeAPlus
	case percentage >= 80:
		return model.GradeA
	case percentage >= 70:
		return model.GradeB
	case percentage >= 60:
		return model.GradeC
	default:
		return model.GradeF
	}
}

// Summarize builds the stored view of an attempt.
func Summarize(a *model.ExamAttempt) model.AttemptSummary {
	pct := Percentage(a.Score, a.TotalQuestions)
	return model.AttemptSummary{
		AttemptID:      a.ID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		Percentage:     pct,
		TimeTaken:      a.TimeTaken,
		CompletedAt:    a.CompletedAt,
		Grade:          GradeFor(pct),
		Passed:         pct >= model.PassPercentage,
	}
}
