package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	a := NewTestDataGenerator(7)
	b := NewTestDataGenerator(7)

	namesA, namesB := a.GenerateUsernames(5), b.GenerateUsernames(5)
	assert.Equal(t, namesA, namesB)
	assert.Len(t, namesA, 5)

	assert.Equal(t, a.GenerateSubmissions(20, namesA, 3), b.GenerateSubmissions(20, namesB, 3))
}

func TestGenerateSubmissionsWithoutPending(t *testing.T) {
	g := NewTestDataGenerator(11)
	players := g.GenerateUsernames(3)

	for _, s := range g.GenerateSubmissions(50, players, 0) {
		if assert.NotNil(t, s.Username) {
			assert.Contains(t, players, *s.Username)
		}
		assert.GreaterOrEqual(t, s.Score, int64(0))
	}
}
