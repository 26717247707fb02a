package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(resource string, id int64) Entry {
	return Entry{ID: uuid.New(), Actor: "admin@shop.vn", Resource: resource, Action: ActionCreate, EntityID: id, At: time.Now()}
}

func TestInMemoryRepository_NewestFirstAndWraps(t *testing.T) {
	repo := NewInMemoryRepository(3)
	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, repo.Insert(ctx, entry("product", i)))
	}

	got, err := repo.Recent(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{5, 4, 3}, []int64{got[0].EntityID, got[1].EntityID, got[2].EntityID})
}

func TestInMemoryRepository_FilterAndLimit(t *testing.T) {
	repo := NewInMemoryRepository(10)
	ctx := context.Background()
	_ = repo.Insert(ctx, entry("product", 1))
	_ = repo.Insert(ctx, entry("order", 2))
	_ = repo.Insert(ctx, entry("product", 3))
	_ = repo.Insert(ctx, entry("news", 4))

	got, err := repo.Recent(ctx, 10, []string{"product"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].EntityID)

	got, _ = repo.Recent(ctx, 1, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "news", got[0].Resource)

	empty, _ := NewInMemoryRepository(0).Recent(ctx, 5, nil)
	assert.Empty(t, empty)
}

func TestPostgresRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	e := entry("brand", 7)
	mock.ExpectExec("INSERT INTO admin_activity").
		WithArgs(sqlmock.AnyArg(), e.Actor, "brand", ActionCreate, int64(7), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Insert(context.Background(), e))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "actor", "resource", "action", "entity_id", "detail", "at"}).
		AddRow(id.String(), "admin@shop.vn", "order", ActionStatus, int64(12), "", at)
	mock.ExpectQuery("FROM admin_activity").WithArgs(sqlmock.AnyArg(), 5).WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 5, []string{"order"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "order", got[0].Resource)
	assert.Equal(t, int64(12), got[0].EntityID)
	assert.True(t, at.Equal(got[0].At))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_RecentQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM admin_activity").WillReturnError(errors.New("relation does not exist"))
	_, err = NewPostgresRepository(db).Recent(context.Background(), 5, nil)
	assert.Error(t, err)
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS admin_activity").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewPostgresRepository(db).EnsureSchema(context.Background()))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
