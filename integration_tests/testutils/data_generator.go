package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was created with.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// Submission is a score as a client would post it. A nil Username means pending.
type Submission struct {
	Username *string
	Score    int64
}

// GenerateUsernames returns count distinct usernames.
func (g *TestDataGenerator) GenerateUsernames(count int) []string {
	seen := make(map[string]struct{}, count)
	names := make([]string, 0, count)
	for len(names) < count {
		name := g.faker.Username()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// GenerateSubmissions returns count submissions drawn from players, roughly
// one in pendingEvery left unattributed. pendingEvery <= 0 yields none pending.
func (g *TestDataGenerator) GenerateSubmissions(count int, players []string, pendingEvery int) []Submission {
	subs := make([]Submission, count)
	for i := range subs {
		subs[i].Score = int64(g.faker.Number(0, 10000))
		if pendingEvery > 0 && g.faker.Number(1, pendingEvery) == 1 {
			continue
		}
		name := players[g.faker.Number(0, len(players)-1)]
		subs[i].Username = &name
	}
	return subs
}
