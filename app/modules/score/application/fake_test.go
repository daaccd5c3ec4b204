package scoreservice

import (
	"context"
	"time"

	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	trace []string

	CreateFinalizedFunc     func(ctx context.Context, username string, score int64) (int64, error)
	CreatePendingFunc       func(ctx context.Context, score int64) (int64, error)
	FinalizeFunc            func(ctx context.Context, id int64, username string) (bool, error)
	FinalizePendingFunc     func(ctx context.Context, id int64, username string) (bool, error)
	DeleteFunc              func(ctx context.Context, id int64) (bool, error)
	GetByIDFunc             func(ctx context.Context, id int64) (*scoredb.Score, error)
	GetLatestPendingFunc    func(ctx context.Context) (*scoredb.Score, error)
	ListFunc                func(ctx context.Context, filter scoredb.FilterSpec) ([]scoredb.Score, error)
	DeletePendingBeforeFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{
		trace: []string{},
	}
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeScoreRepo) CreateFinalized(ctx context.Context, username string, score int64) (int64, error) {
	f.record("CreateFinalized")
	if f.CreateFinalizedFunc != nil {
		return f.CreateFinalizedFunc(ctx, username, score)
	}
	return 1, nil
}

func (f *FakeScoreRepo) CreatePending(ctx context.Context, score int64) (int64, error) {
	f.record("CreatePending")
	if f.CreatePendingFunc != nil {
		return f.CreatePendingFunc(ctx, score)
	}
	return 1, nil
}

func (f *FakeScoreRepo) Finalize(ctx context.Context, id int64, username string) (bool, error) {
	f.record("Finalize")
	if f.FinalizeFunc != nil {
		return f.FinalizeFunc(ctx, id, username)
	}
	return true, nil
}

func (f *FakeScoreRepo) FinalizePending(ctx context.Context, id int64, username string) (bool, error) {
	f.record("FinalizePending")
	if f.FinalizePendingFunc != nil {
		return f.FinalizePendingFunc(ctx, id, username)
	}
	return true, nil
}

func (f *FakeScoreRepo) Delete(ctx context.Context, id int64) (bool, error) {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (f *FakeScoreRepo) GetByID(ctx context.Context, id int64) (*scoredb.Score, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) GetLatestPending(ctx context.Context) (*scoredb.Score, error) {
	f.record("GetLatestPending")
	if f.GetLatestPendingFunc != nil {
		return f.GetLatestPendingFunc(ctx)
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) List(ctx context.Context, filter scoredb.FilterSpec) ([]scoredb.Score, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return []scoredb.Score{}, nil
}

func (f *FakeScoreRepo) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.record("DeletePendingBefore")
	if f.DeletePendingBeforeFunc != nil {
		return f.DeletePendingBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}

// --- Accessors for assertions ---

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ scoredb.Repository = (*FakeScoreRepo)(nil)
