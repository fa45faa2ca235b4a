package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "hashed_password", "is_active", "is_verified", "is_admin", "created_at", "updated_at"}
}

func TestUserGetByID(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "alice@example.com", "hash", true, true, false, now, now))

	user, err := repo.GetByID(1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Username != "alice" || !user.IsActive {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("nobody@example.com", 1).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByEmail("nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserCreate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	user := &domain.User{Username: "alice", Email: "alice@example.com", HashedPassword: "hash", IsActive: true}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("id = %d, want 7", user.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(&domain.User{Username: "alice", Email: "alice@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserListWithSearch(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE username ILIKE \$1 OR email ILIKE \$2`).
		WithArgs("%ali%", "%ali%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "alice@example.com", "hash", true, true, false, time.Now(), time.Now()))

	users, total, err := repo.List(domain.UserFilter{Search: "ali"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("unexpected result: total=%d users=%+v", total, users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListChatUsersExcludesCaller(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id <> \$1 AND is_active = \$2 AND is_verified = \$3 ORDER BY username ASC`).
		WithArgs(1, true, true).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(2, "bob", "bob@example.com", "hash", true, true, false, time.Now(), time.Now()))

	users, err := repo.ListChatUsers(1)
	if err != nil {
		t.Fatalf("ListChatUsers: %v", err)
	}
	if len(users) != 1 || users[0].Username != "bob" {
		t.Errorf("unexpected users: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
