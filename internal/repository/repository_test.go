package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/parlay-engine/internal/models"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ret := m.Called(ctx, sql, args)
	rows, _ := ret.Get(0).(pgx.Rows)
	return rows, ret.Error(1)
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	ret := m.Called(ctx, sql, args)
	return ret.Get(0).(pgx.Row)
}

// fakeRows replays fixed values through pgx.Rows
type fakeRows struct {
	data   [][]any
	idx    int
	closed bool
	err    error
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.data[r.idx-1], dest)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

func scanInto(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func TestBuildOutcomeWhere(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    models.OutcomeFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter",
			filter:    models.OutcomeFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "engine only",
			filter:    models.OutcomeFilter{Engine: models.EngineSharp},
			wantWhere: " WHERE engine = $1",
			wantArgs:  []any{"sharp"},
		},
		{
			name:      "all fields",
			filter:    models.OutcomeFilter{Engine: models.EngineTrap, Sport: "nba", BetType: "spread", Since: since},
			wantWhere: " WHERE engine = $1 AND sport = $2 AND bet_type = $3 AND verified_at >= $4",
			wantArgs:  []any{"trap", "nba", "spread", since},
		},
		{
			name:      "sport and since",
			filter:    models.OutcomeFilter{Sport: "nfl", Since: since},
			wantWhere: " WHERE sport = $1 AND verified_at >= $2",
			wantArgs:  []any{"nfl", since},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildOutcomeWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOutcomeRepositoryList(t *testing.T) {
	ctx := context.Background()
	id1, id2 := uuid.New(), uuid.New()
	at := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	rows := &fakeRows{data: [][]any{
		{id1, 0.62, true, "sharp", "nba", "spread", "high", at},
		{id2, 0.35, false, "hitrate", "", "", "", at.Add(-time.Hour)},
	}}

	q := new(mockQuerier)
	q.On("Query", ctx, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "FROM verified_outcomes WHERE sport = $1") && strings.HasSuffix(sql, "LIMIT $2")
	}), []any{"nba", 50}).Return(rows, nil)

	repo := NewPostgresOutcomeRepository(q)
	outcomes, err := repo.List(ctx, models.OutcomeFilter{Sport: "nba", Limit: 50})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, id1, outcomes[0].ID)
	assert.Equal(t, models.EngineSharp, outcomes[0].Engine)
	assert.True(t, outcomes[0].ActualOutcome)
	assert.Equal(t, "high", outcomes[0].ConfidenceLevel)
	assert.Equal(t, models.EngineHitRate, outcomes[1].Engine)
	assert.Equal(t, 0.35, outcomes[1].PredictedProbability)
	assert.True(t, rows.closed)
	q.AssertExpectations(t)
}

func TestOutcomeRepositoryListErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("query error", func(t *testing.T) {
		q := new(mockQuerier)
		q.On("Query", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		_, err := NewPostgresOutcomeRepository(q).List(ctx, models.OutcomeFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query verified outcomes")
	})

	t.Run("iteration error", func(t *testing.T) {
		q := new(mockQuerier)
		q.On("Query", ctx, mock.Anything, mock.Anything).Return(&fakeRows{err: errors.New("broken pipe")}, nil)

		_, err := NewPostgresOutcomeRepository(q).List(ctx, models.OutcomeFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error iterating verified outcomes")
	})
}

func TestOutcomeRepositoryCount(t *testing.T) {
	ctx := context.Background()
	q := new(mockQuerier)
	q.On("QueryRow", ctx, "SELECT COUNT(*) FROM verified_outcomes WHERE engine = $1", []any{"upset"}).
		Return(fakeRow{values: []any{42}})

	count, err := NewPostgresOutcomeRepository(q).Count(ctx, models.OutcomeFilter{Engine: models.EngineUpset, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	q.AssertExpectations(t)
}

func TestBankrollRepositoryGetByUserID(t *testing.T) {
	ctx := context.Background()
	updated := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		q := new(mockQuerier)
		q.On("QueryRow", ctx, mock.Anything, []any{"user-1"}).Return(fakeRow{values: []any{
			"user-1", decimal.NewFromInt(1000), 0.05, decimal.NewFromInt(10), 0.25, updated,
		}})

		settings, err := NewPostgresBankrollRepository(q).GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", settings.UserID)
		assert.True(t, settings.BankrollAmount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, 0.05, settings.MaxBetPercent)
		assert.Equal(t, 0.25, settings.KellyMultiplier)
		assert.Equal(t, updated, settings.UpdatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		q := new(mockQuerier)
		q.On("QueryRow", ctx, mock.Anything, []any{"ghost"}).Return(fakeRow{err: pgx.ErrNoRows})

		_, err := NewPostgresBankrollRepository(q).GetByUserID(ctx, "ghost")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		q := new(mockQuerier)
		q.On("QueryRow", ctx, mock.Anything, []any{"user-2"}).Return(fakeRow{err: errors.New("timeout")})

		_, err := NewPostgresBankrollRepository(q).GetByUserID(ctx, "user-2")
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNotFound)
		assert.Contains(t, err.Error(), "failed to get bankroll settings")
	})
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)

	repos := newRepositories(new(mockQuerier))
	assert.NotNil(t, repos.Outcome)
	assert.NotNil(t, repos.Bankroll)
}

func TestMemoryOutcomeRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.HistoricalOutcome{
		{ID: uuid.New(), Engine: models.EngineSharp, Sport: "nba", PredictedProbability: 0.6, Timestamp: base},
		{ID: uuid.New(), Engine: models.EngineSharp, Sport: "nfl", PredictedProbability: 0.7, Timestamp: base.Add(48 * time.Hour)},
		{ID: uuid.New(), Engine: models.EngineTrap, Sport: "nba", PredictedProbability: 0.4, Timestamp: base.Add(24 * time.Hour)},
	}
	repo := NewMemoryOutcomeRepository(rows)

	all, err := repo.List(ctx, models.OutcomeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, rows[1].ID, all[0].ID, "newest first")
	assert.Equal(t, rows[0].ID, all[2].ID)

	sharp, err := repo.List(ctx, models.OutcomeFilter{Engine: models.EngineSharp, Limit: 1})
	require.NoError(t, err)
	require.Len(t, sharp, 1)
	assert.Equal(t, rows[1].ID, sharp[0].ID)

	recent, err := repo.Count(ctx, models.OutcomeFilter{Since: base.Add(time.Hour), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, recent)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.List(cancelled, models.OutcomeFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
