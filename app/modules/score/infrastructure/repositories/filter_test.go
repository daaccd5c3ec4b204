package scoredb

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func ptr[T any](v T) *T { return &v }

func TestBuildListQuery(t *testing.T) {
	since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name      string
		filter    FilterSpec
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no filters orders by id",
			filter:    FilterSpec{},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 ORDER BY id ASC",
			wantArgs:  nil,
		},
		{
			name:      "all filters in canonical order",
			filter:    FilterSpec{Since: &since, Username: ptr("alice"), Pending: ptr(false), OrderBy: OrderByScoreDesc},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 AND scored_at >= $1 AND username = $2 AND pending = $3 ORDER BY score DESC, id ASC",
			wantArgs:  []any{since.UTC(), "alice", false},
		},
		{
			name:      "only username and pending present",
			filter:    FilterSpec{Username: ptr("bob"), Pending: ptr(true)},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 AND username = $1 AND pending = $2 ORDER BY id ASC",
			wantArgs:  []any{"bob", true},
		},
		{
			name:      "only pending present",
			filter:    FilterSpec{Pending: ptr(true), OrderBy: OrderByScore},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 AND pending = $1 ORDER BY score ASC, id ASC",
			wantArgs:  []any{true},
		},
		{
			name:      "since and pending skip username",
			filter:    FilterSpec{Since: &since, Pending: ptr(false)},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 AND scored_at >= $1 AND pending = $2 ORDER BY id ASC",
			wantArgs:  []any{since.UTC(), false},
		},
		{
			name:      "limit takes the next placeholder",
			filter:    FilterSpec{Username: ptr("carol"), OrderBy: OrderByScoreDesc, Limit: 10},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 AND username = $1 ORDER BY score DESC, id ASC LIMIT $2",
			wantArgs:  []any{"carol", 10},
		},
		{
			name:      "username value is bound, not interpolated",
			filter:    FilterSpec{Username: ptr("x'; DROP TABLE scores; --")},
			wantQuery: "SELECT id, username, score, scored_at, pending FROM scores WHERE 1=1 AND username = $1 ORDER BY id ASC",
			wantArgs:  []any{"x'; DROP TABLE scores; --"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BuildListQuery(tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantQuery, query); diff != "" {
				t.Errorf("query mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildListQuery_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		filter  FilterSpec
		wantErr error
	}{
		{
			name:    "free text ordering",
			filter:  FilterSpec{OrderBy: OrderBy("score; DROP TABLE scores")},
			wantErr: ErrInvalidOrder,
		},
		{
			name:    "negative limit",
			filter:  FilterSpec{Limit: -1},
			wantErr: ErrInvalidLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BuildListQuery(tt.filter)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if query != "" || args != nil {
				t.Errorf("expected no query on error, got %q %v", query, args)
			}
		})
	}
}

func TestParseOrderBy(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderBy
		wantErr bool
	}{
		{in: "", want: OrderByID},
		{in: "id", want: OrderByID},
		{in: "score", want: OrderByScore},
		{in: "Score DESC", want: OrderByScoreDesc},
		{in: " score desc ", want: OrderByScoreDesc},
		{in: "username", wantErr: true},
		{in: "id; DELETE FROM scores", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrderBy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOrder) {
					t.Fatalf("expected ErrInvalidOrder, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
