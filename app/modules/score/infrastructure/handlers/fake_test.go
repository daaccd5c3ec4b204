package scorehandlers

import (
	"context"
	"time"

	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
)

// FakeService is a programmable fake for scoreservice.Service.
type FakeService struct {
	trace []string

	SubmitScoreFunc      func(ctx context.Context, username *string, score int64) (int64, error)
	FinalizeScoreFunc    func(ctx context.Context, id int64, username string) error
	DeleteScoreFunc      func(ctx context.Context, id int64) error
	GetScoreFunc         func(ctx context.Context, id int64) (*scoredb.Score, error)
	GetLatestPendingFunc func(ctx context.Context) (*scoredb.Score, error)
	ListScoresFunc       func(ctx context.Context, filter scoredb.FilterSpec) ([]scoredb.Score, error)
	LeaderboardFunc      func(ctx context.Context, limit int) ([]scoredb.Score, error)
	ExportScoresFunc     func(ctx context.Context, filter scoredb.FilterSpec) ([]byte, error)
	LeaderboardChartFunc func(ctx context.Context, limit int) ([]byte, error)
	PrunePendingFunc     func(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) SubmitScore(ctx context.Context, username *string, score int64) (int64, error) {
	f.record("SubmitScore")
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, username, score)
	}
	return 1, nil
}

func (f *FakeService) FinalizeScore(ctx context.Context, id int64, username string) error {
	f.record("FinalizeScore")
	if f.FinalizeScoreFunc != nil {
		return f.FinalizeScoreFunc(ctx, id, username)
	}
	return nil
}

func (f *FakeService) DeleteScore(ctx context.Context, id int64) error {
	f.record("DeleteScore")
	if f.DeleteScoreFunc != nil {
		return f.DeleteScoreFunc(ctx, id)
	}
	return nil
}

func (f *FakeService) GetScore(ctx context.Context, id int64) (*scoredb.Score, error) {
	f.record("GetScore")
	if f.GetScoreFunc != nil {
		return f.GetScoreFunc(ctx, id)
	}
	return nil, scoreservice.ErrNotFound
}

func (f *FakeService) GetLatestPending(ctx context.Context) (*scoredb.Score, error) {
	f.record("GetLatestPending")
	if f.GetLatestPendingFunc != nil {
		return f.GetLatestPendingFunc(ctx)
	}
	return nil, scoreservice.ErrNotFound
}

func (f *FakeService) ListScores(ctx context.Context, filter scoredb.FilterSpec) ([]scoredb.Score, error) {
	f.record("ListScores")
	if f.ListScoresFunc != nil {
		return f.ListScoresFunc(ctx, filter)
	}
	return []scoredb.Score{}, nil
}

func (f *FakeService) Leaderboard(ctx context.Context, limit int) ([]scoredb.Score, error) {
	f.record("Leaderboard")
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx, limit)
	}
	return []scoredb.Score{}, nil
}

func (f *FakeService) ExportScores(ctx context.Context, filter scoredb.FilterSpec) ([]byte, error) {
	f.record("ExportScores")
	if f.ExportScoresFunc != nil {
		return f.ExportScoresFunc(ctx, filter)
	}
	return []byte("PK"), nil
}

func (f *FakeService) LeaderboardChart(ctx context.Context, limit int) ([]byte, error) {
	f.record("LeaderboardChart")
	if f.LeaderboardChartFunc != nil {
		return f.LeaderboardChartFunc(ctx, limit)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (f *FakeService) PrunePending(ctx context.Context, cutoff time.Time) (int64, error) {
	f.record("PrunePending")
	if f.PrunePendingFunc != nil {
		return f.PrunePendingFunc(ctx, cutoff)
	}
	return 0, nil
}

var _ scoreservice.Service = (*FakeService)(nil)
