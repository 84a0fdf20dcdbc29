package service

import (
	"testing"

	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	key := model.AnswerKey{"q1": 0, "q2": 2, "q3": 1}

	tests := []struct {
		name      string
		answers   map[string]int
		wantScore int
		wantTotal int
	}{
		{"empty", map[string]int{}, 0, 0},
		{"nil", nil, 0, 0},
		{"one of two", map[string]int{"q1": 0, "q2": 1}, 1, 2},
		{"all correct", map[string]int{"q1": 0, "q2": 2, "q3": 1}, 3, 3},
		{"unknown id counts toward total", map[string]int{"q1": 0, "zz": 0}, 1, 2},
		{"negative option never matches", map[string]int{"q1": -1}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := Score(key, tt.answers)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantTotal, total)
			assert.LessOrEqual(t, score, total)
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(10, 10))
	assert.Equal(t, 13, Percentage(1, 8)) // 12.5 rounds half up
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, model.GradeAPlus, GradeFor(90))
	assert.Equal(t, model.GradeA, GradeFor(89))
	assert.Equal(t, model.GradeA, GradeFor(80))
	assert.Equal(t, model.GradeB, GradeFor(70))
	assert.Equal(t, model.GradeC, GradeFor(60))
	assert.Equal(t, model.GradeF, GradeFor(59))
	assert.Equal(t, model.GradeF, GradeFor(0))
}

func TestSummarizeZeroTotal(t *testing.T) {
	s := Summarize(&model.ExamAttempt{Score: 0, TotalQuestions: 0})
	assert.Equal(t, 0, s.Percentage)
	assert.Equal(t, model.GradeF, s.Grade)
	assert.False(t, s.Passed)
}
