package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/domain"
	"patentdesk/internal/repository/postgres"
)

const attachQuery = `UPDATE file_metadata SET application_no = \$1, updated_at = \$2\s+` +
	`WHERE owner_id = \$3 AND category = \$4 AND status = \$5\s+` +
	`AND \(application_no IS NULL OR application_no = \$6\) AND id IN \(\$7, \$8\)`

func TestFileMetaRepo_AttachToApplication(t *testing.T) {
	owner := uuid.New()
	first, second := uuid.New(), uuid.New()

	t.Run("scoped to category and unattached files", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := postgres.NewFileMetaRepo(db)

		mock.ExpectExec(attachQuery).
			WithArgs("PA-2026-000001", sqlmock.AnyArg(), owner.String(), "drawings", "uploaded",
				"PA-2026-000001", first.String(), second.String()).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.AttachToApplication(context.Background(), owner, "PA-2026-000001",
			domain.CategoryDrawings, []uuid.UUID{first, second})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a file outside the scope is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := postgres.NewFileMetaRepo(db)

		mock.ExpectExec(attachQuery).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AttachToApplication(context.Background(), owner, "PA-2026-000001",
			domain.CategoryAbstract, []uuid.UUID{first, second})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no files", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := postgres.NewFileMetaRepo(db)

		require.NoError(t, repo.AttachToApplication(context.Background(), owner, "PA-2026-000001",
			domain.CategoryClaims, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
