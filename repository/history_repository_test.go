package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxietl/models"
	"taxietl/repository/testutil"
)

func TestHistoryRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewHistoryRepository(testDB.DB)
	ctx := context.Background()

	aug := models.Month{Year: 2021, Month: 8}
	sep := models.Month{Year: 2021, Month: 9}

	t.Run("latest month of empty table", func(t *testing.T) {
		latest, err := repo.LatestMonth(ctx)
		require.NoError(t, err)
		assert.True(t, latest.IsZero())
	})

	t.Run("append and read by month", func(t *testing.T) {
		_, err := repo.Append(ctx, []models.HistoryRecord{
			testutil.CreateTestHistory("2021-08", "C", "D", 2),
			testutil.CreateTestHistory("2021-08", "A", "B", 1),
			testutil.CreateTestHistory("2021-09", "A", "B", 2),
		})
		require.NoError(t, err)

		records, err := repo.GetByMonth(ctx, aug)
		require.NoError(t, err)
		assert.Equal(t, []models.HistoryRecord{
			testutil.CreateTestHistory("2021-08", "A", "B", 1),
			testutil.CreateTestHistory("2021-08", "C", "D", 2),
		}, records)

		latest, err := repo.LatestMonth(ctx)
		require.NoError(t, err)
		assert.Equal(t, sep, latest)
	})

	t.Run("pair trajectory oldest first", func(t *testing.T) {
		records, err := repo.GetByPair(ctx, "A", "B")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "2021-08", records[0].Month)
		assert.Equal(t, 1, records[0].Rank)
		assert.Equal(t, "2021-09", records[1].Month)
		assert.Equal(t, 2, records[1].Rank)
	})

	t.Run("rank must be positive", func(t *testing.T) {
		_, err := repo.Append(ctx, []models.HistoryRecord{testutil.CreateTestHistory("2021-09", "E", "F", 0)})
		assert.ErrorIs(t, err, models.ErrInvalidRow)
	})

	t.Run("delete by month", func(t *testing.T) {
		deleted, err := repo.DeleteByMonth(ctx, sep)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		records, err := repo.GetByMonth(ctx, sep)
		require.NoError(t, err)
		assert.Empty(t, records)

		records, err = repo.GetByMonth(ctx, aug)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
