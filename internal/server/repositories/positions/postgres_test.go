package positions

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+positions\s*\(id,\s*election_id,\s*name,\s*max_selectable\)`).
		WithArgs("p1", "e1", "President", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, err := repo.Create(context.Background(), &models.Position{ID: "p1", ElectionID: "e1", Name: "President", MaxSelectable: 1}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+positions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "positions_election_id_name_key"})

	_, err := repo.Create(context.Background(), &models.Position{ID: "p2", ElectionID: "e1", Name: "President", MaxSelectable: 1})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
}

func TestListByElection(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+positions\s+WHERE\s+election_id\s*=\s*\$1\s+ORDER\s+BY\s+name`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "election_id", "name", "max_selectable"}).
			AddRow("p2", "e1", "Board", 3).
			AddRow("p1", "e1", "President", 1))

	got, err := repo.ListByElection(context.Background(), "e1")
	if err != nil {
		t.Fatalf("ListByElection error: %v", err)
	}
	if len(got) != 2 || got[0].MaxSelectable != 3 {
		t.Fatalf("unexpected positions: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+positions\s+WHERE\s+id`).WithArgs("x").WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "x"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+positions\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+positions`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), "p1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound on second delete, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+positions\s+SET\s+name\s*=\s*\$2,\s*max_selectable\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1`
	mock.ExpectExec(q).
		WithArgs("p1", "Chair", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).
		WithArgs("p1", "Board", 1).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "positions_election_id_name_key"})
	mock.ExpectExec(q).
		WithArgs("gone", "Chair", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	if err := repo.Update(ctx, &models.Position{ID: "p1", Name: "Chair", MaxSelectable: 2}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := repo.Update(ctx, &models.Position{ID: "p1", Name: "Board", MaxSelectable: 1}); !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
	if err := repo.Update(ctx, &models.Position{ID: "gone", Name: "Chair", MaxSelectable: 1}); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
