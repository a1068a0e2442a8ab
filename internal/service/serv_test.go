package service_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/linemk/order-service/internal/domain/models"
	"github.com/linemk/order-service/internal/service"
	"github.com/linemk/order-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo — хранилище пользователей в памяти с уникальностью email.
type fakeUserRepo struct {
	users      map[int64]*models.User
	nextID     int64
	withOrders map[int64]bool // пользователи, на которых ссылаются заказы
	listErr    error
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[int64]*models.User),
		nextID:     1,
		withOrders: make(map[int64]bool),
	}
}

func (f *fakeUserRepo) emailTaken(email string, exceptID int64) bool {
	for _, u := range f.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, tx *sql.Tx, user *models.User) (*models.User, error) {
	if f.emailTaken(user.Email, 0) {
		return nil, storage.ErrEmailExists
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, tx *sql.Tx, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return storage.ErrUserNotFound
	}
	if f.emailTaken(user.Email, user.ID) {
		return storage.ErrEmailExists
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrUserNotFound
	}
	if f.withOrders[id] {
		return storage.ErrUserHasOrders
	}
	delete(f.users, id)
	return nil
}

type fakeReportRepo struct {
	perUser  []models.OrdersPerUser
	perOrder []models.OrderSpend
	err      error
}

var _ storage.ReportStorage = (*fakeReportRepo)(nil)

func (f *fakeReportRepo) OrdersPerUser(ctx context.Context) ([]models.OrdersPerUser, error) {
	return f.perUser, f.err
}

func (f *fakeReportRepo) SpendPerOrder(ctx context.Context) ([]models.OrderSpend, error) {
	return f.perOrder, f.err
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestUserService_Create_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeUserRepo()
	svc := service.NewUserService(newLogger(), db, repo)

	id, err := svc.Create(context.Background(), "Carol", "carol@example.com")
	assert.NoError(t, err)
	assert.Greater(t, id, int64(0))

	// пользователь появляется в списке ровно один раз
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	count := 0
	for _, u := range users {
		if u.ID == id {
			count++
			assert.Equal(t, "Carol", u.Name)
			assert.Equal(t, "carol@example.com", u.Email)
		}
	}
	assert.Equal(t, 1, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_NewIDsNeverReused(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	svc := service.NewUserService(newLogger(), db, repo)

	seen := make(map[int64]bool)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		mock.ExpectBegin()
		mock.ExpectCommit()
		id, err := svc.Create(context.Background(), "user", email)
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	svc := service.NewUserService(newLogger(), db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Create(context.Background(), "Alice", "alice@example.com")
	require.NoError(t, err)

	// второй вызов должен откатить транзакцию
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Create(context.Background(), "Alice 2", "alice@example.com")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrEmailExists))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Create_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	svc := service.NewUserService(newLogger(), db, newFakeUserRepo())
	_, err = svc.Create(context.Background(), "Carol", "carol@example.com")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrEmailExists))
}

func TestUserService_Create_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

	svc := service.NewUserService(newLogger(), db, newFakeUserRepo())
	_, err = svc.Create(context.Background(), "Carol", "carol@example.com")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_List_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	repo.listErr = errors.New("db down")
	svc := service.NewUserService(newLogger(), db, repo)

	users, err := svc.List(context.Background())
	assert.Error(t, err)
	assert.Nil(t, users)
}

func TestUserService_Update_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	repo.nextID = 2

	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := service.NewUserService(newLogger(), db, repo)
	err = svc.Update(context.Background(), 1, "Alice Smith", "alice.smith@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Alice Smith", repo.users[1].Name)
	assert.Equal(t, "alice.smith@example.com", repo.users[1].Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	repo.nextID = 2

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := service.NewUserService(newLogger(), db, repo)
	err = svc.Update(context.Background(), 99, "Nobody", "nobody@example.com")
	assert.True(t, errors.Is(err, storage.ErrUserNotFound))

	// количество строк не меняется
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Delete_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	repo.users[2] = &models.User{ID: 2, Name: "Bob", Email: "bob@example.com"}
	repo.nextID = 3

	mock.ExpectBegin()
	mock.ExpectCommit()

	svc := service.NewUserService(newLogger(), db, repo)
	require.NoError(t, svc.Delete(context.Background(), 2))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.User{{ID: 1, Name: "Alice", Email: "alice@example.com"}}, users)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Delete_HasOrders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := newFakeUserRepo()
	repo.users[1] = &models.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
	repo.withOrders[1] = true

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := service.NewUserService(newLogger(), db, repo)
	err = svc.Delete(context.Background(), 1)
	assert.True(t, errors.Is(err, storage.ErrUserHasOrders))
	assert.Contains(t, repo.users, int64(1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := service.NewUserService(newLogger(), db, newFakeUserRepo())
	err = svc.Delete(context.Background(), 5)
	assert.True(t, errors.Is(err, storage.ErrUserNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportService_OrdersPerUser(t *testing.T) {
	repo := &fakeReportRepo{perUser: []models.OrdersPerUser{
		{UserName: "Alice", OrdersCount: 1},
		{UserName: "Bob", OrdersCount: 1},
	}}
	svc := service.NewReportService(newLogger(), repo)

	report, err := svc.OrdersPerUser(context.Background())
	assert.NoError(t, err)
	require.Len(t, report, 2)
	for _, row := range report {
		assert.Equal(t, int64(1), row.OrdersCount)
	}
}

func TestReportService_SpendPerOrder(t *testing.T) {
	repo := &fakeReportRepo{perOrder: []models.OrderSpend{
		{OrderID: 1, TotalSpent: 46.00},
		{OrderID: 2, TotalSpent: 36.25},
	}}
	svc := service.NewReportService(newLogger(), repo)

	report, err := svc.SpendPerOrder(context.Background())
	assert.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, int64(1), report[0].OrderID)
	assert.Equal(t, int64(2), report[1].OrderID)
}

func TestReportService_Error(t *testing.T) {
	repo := &fakeReportRepo{err: errors.New("db down")}
	svc := service.NewReportService(newLogger(), repo)

	_, err := svc.OrdersPerUser(context.Background())
	assert.Error(t, err)
	_, err = svc.SpendPerOrder(context.Background())
	assert.Error(t, err)
}
