package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSequenceRepository creates a GormDocumentSequenceRepository with a mocked SQL connection
func newMockSequenceRepository(t *testing.T) (*GormDocumentSequenceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormDocumentSequenceRepository(gormDB), mock, mockDB
}

func TestGormDocumentSequenceRepository_Next(t *testing.T) {
	t.Run("seeds counter row and increments under lock", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "document_sequences" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE doc_type = \$1 AND year = \$2 .* FOR UPDATE`).
			WithArgs("BILL", 2026, 1).
			WillReturnRows(sqlmock.NewRows([]string{"doc_type", "year", "counter"}).
				AddRow("BILL", 2026, 41))

		mock.ExpectExec(`UPDATE "document_sequences" SET "counter"=\$1 WHERE doc_type = \$2 AND year = \$3`).
			WithArgs(int64(42), "BILL", 2026).
			WillReturnResult(sqlmock.NewResult(0, 1))

		next, err := repo.Next(context.Background(), "BILL", 2026)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), next)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first allocation starts at one", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "document_sequences" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE doc_type = \$1 AND year = \$2 .* FOR UPDATE`).
			WithArgs("WO", 2026, 1).
			WillReturnRows(sqlmock.NewRows([]string{"doc_type", "year", "counter"}).
				AddRow("WO", 2026, 0))

		mock.ExpectExec(`UPDATE "document_sequences" SET "counter"=\$1 WHERE doc_type = \$2 AND year = \$3`).
			WithArgs(int64(1), "WO", 2026).
			WillReturnResult(sqlmock.NewResult(0, 1))

		next, err := repo.Next(context.Background(), "WO", 2026)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), next)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates lock query errors", func(t *testing.T) {
		repo, mock, mockDB := newMockSequenceRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "document_sequences" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE doc_type = \$1 AND year = \$2 .* FOR UPDATE`).
			WithArgs("PO", 2026, 1).
			WillReturnError(assert.AnError)

		next, err := repo.Next(context.Background(), "PO", 2026)

		assert.Error(t, err)
		assert.Zero(t, next)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
