package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

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

var cols = []string{"id", "tenant_id", "email", "first_name", "last_name", "role", "active", "created_at"}

const insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*tenant_id,\s*email,\s*first_name,\s*last_name,\s*role,\s*active\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*RETURNING\s+created_at\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	tenant := "t1"
	now := time.Now().UTC()
	mock.ExpectQuery(insertQ).
		WithArgs("u1", "t1", "ana@acme.test", "Ana", "Diaz", models.RoleVoter, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	got, err := repo.Create(context.Background(), &models.User{
		ID: "u1", TenantID: &tenant, Email: "ana@acme.test", FirstName: "Ana", LastName: "Diaz",
		Role: models.RoleVoter, Active: true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_SuperAdminWithoutTenant(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("root", nil, "root@platform.test", "Root", "", models.RoleSuperAdmin, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	if _, err := repo.Create(context.Background(), &models.User{
		ID: "root", Email: "root@platform.test", FirstName: "Root", Role: models.RoleSuperAdmin, Active: true,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{ID: "u1", Email: "ana@acme.test", Role: models.RoleVoter})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: "u1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*tenant_id,.*\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "t1", "ana@acme.test", "Ana", "Diaz", "VOTANTE", true, time.Now()))

	got, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.TenantID == nil || *got.TenantID != "t1" || got.Role != models.RoleVoter {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NullTenant(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).
		WithArgs("root").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("root", nil, "root@platform.test", "Root", "", "SUPER_ADMIN", true, time.Now()))

	got, err := repo.GetByID(context.Background(), "root")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.TenantID != nil {
		t.Fatalf("expected nil tenant, got %v", *got.TenantID)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("ana@acme.test").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "t1", "ana@acme.test", "Ana", "Diaz", "VOTANTE", true, time.Now()))

	got, err := repo.GetByEmail(context.Background(), "ana@acme.test")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestListByIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+users\s+WHERE\s+id\s+IN\s+\(\$1,\s*\$2,\s*\$3\)$`
	mock.ExpectQuery(q).
		WithArgs("a", "b", "c").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a", "t1", "a@x", "A", "", "VOTANTE", true, time.Now()).
			AddRow("c", "t1", "c@x", "C", "", "VOTANTE", true, time.Now()))

	got, err := repo.ListByIDs(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("ListByIDs error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestListByIDs_Chunked(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	prev := listByIDsChunk
	listByIDsChunk = 2
	defer func() { listByIDsChunk = prev }()

	mock.ExpectQuery(`(?s)WHERE\s+id\s+IN\s+\(\$1,\s*\$2\)$`).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a", "t1", "a@x", "A", "", "VOTANTE", true, time.Now()).
			AddRow("b", "t1", "b@x", "B", "", "VOTANTE", true, time.Now()))
	mock.ExpectQuery(`(?s)WHERE\s+id\s+IN\s+\(\$1,\s*\$2\)$`).
		WithArgs("c", "d").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("d", "t1", "d@x", "D", "", "VOTANTE", true, time.Now()))
	mock.ExpectQuery(`(?s)WHERE\s+id\s+IN\s+\(\$1\)$`).
		WithArgs("e").
		WillReturnError(errors.New("conn reset"))

	_, err := repo.ListByIDs(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err == nil {
		t.Fatalf("expected error from the last chunk")
	}

	mock.ExpectQuery(`(?s)WHERE\s+id\s+IN\s+\(\$1,\s*\$2\)$`).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a", "t1", "a@x", "A", "", "VOTANTE", true, time.Now()))
	mock.ExpectQuery(`(?s)WHERE\s+id\s+IN\s+\(\$1\)$`).
		WithArgs("c").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c", "t1", "c@x", "C", "", "VOTANTE", true, time.Now()))

	got, err := repo.ListByIDs(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("ListByIDs error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected users: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByIDs_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.ListByIDs(context.Background(), nil)
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}
