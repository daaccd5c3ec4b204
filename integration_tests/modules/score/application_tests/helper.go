package scoreintegrationtests

import (
	"context"
	"io"
	"log/slog"
	"testing"

	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	scoremetrics "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/metrics"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/meishu/integration_tests/testutils"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

type TestDeps struct {
	Ctx     context.Context
	Repo    scoredb.Repository
	BunDB   *bun.DB
	ConnStr string
	Service scoreservice.Service
	Logger  *slog.Logger
}

func SetupTestScoreService(t *testing.T, cfg scoreservice.Config) TestDeps {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)

	if err := testutils.TruncateTables(env.Ctx, env.DB, "scores"); err != nil {
		t.Fatalf("Failed to truncate score tables: %v", err)
	}

	repo := scoredb.NewRepository(env.DB)
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := scoreservice.NewScoreService(
		repo,
		testLogger,
		scoremetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test_score_service"),
		cfg,
	)

	return TestDeps{
		Ctx:     env.Ctx,
		Repo:    repo,
		BunDB:   env.DB,
		ConnStr: env.ConnStr,
		Service: service,
		Logger:  testLogger,
	}
}

func ptr[T any](v T) *T { return &v }

func ids(scores []scoredb.Score) []int64 {
	out := make([]int64, len(scores))
	for i, s := range scores {
		out[i] = s.ID
	}
	return out
}
