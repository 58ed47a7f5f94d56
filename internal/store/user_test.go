package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fast-zero/internal/database"
	"fast-zero/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

/* ---------- 假實作 ---------- */

// fakeUserRow 實作 pgx.Row，用於模擬單筆掃描行為。
type fakeUserRow struct {
	scanErr error
	user    *model.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 6:
		// Get*: id, username, email, password_hash, created_at, updated_at
		*dest[0].(*int) = u.ID
		*dest[1].(*string) = u.Username
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(*time.Time) = u.CreatedAt
		*dest[5].(*time.Time) = u.UpdatedAt
	case 3:
		// CreateUser: id, created_at, updated_at
		*dest[0].(*int) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
		*dest[2].(*time.Time) = u.UpdatedAt
	case 1:
		// UpdateUser: updated_at
		*dest[0].(*time.Time) = u.UpdatedAt
	default:
		panic("fakeUserRow.Scan: unexpected number of dest")
	}
	return nil
}

// fakeUserRows 實作 pgx.Rows，用於模擬多筆掃描行為。
type fakeUserRows struct {
	data    []model.User
	idx     int
	scanErr error
	err     error
}

func (r *fakeUserRows) Close()                                       {}
func (r *fakeUserRows) Err() error                                   { return r.err }
func (r *fakeUserRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeUserRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeUserRows) Next() bool                                   { return r.idx < len(r.data) }
func (r *fakeUserRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.data[r.idx]
	r.idx++
	*dest[0].(*int) = u.ID
	*dest[1].(*string) = u.Username
	*dest[2].(*string) = u.Email
	*dest[3].(*string) = u.PasswordHash
	*dest[4].(*time.Time) = u.CreatedAt
	*dest[5].(*time.Time) = u.UpdatedAt
	return nil
}
func (r *fakeUserRows) Values() ([]any, error) { return nil, nil }
func (r *fakeUserRows) RawValues() [][]byte    { return nil }
func (r *fakeUserRows) Conn() *pgx.Conn        { return nil }

// fakeTx 實作 pgx.Tx，記錄交易內執行的語句。
type fakeTx struct {
	execs      []string
	execErrAt  int // 第 n 次 Exec 回傳錯誤，0 表示不出錯
	execZeroAt int // 第 n 次 Exec 回報 DELETE 0，0 表示皆為 DELETE 1
	commitErr  error
	committed  bool
	rolledNum  int
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("unexpected Begin") }
func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}
func (tx *fakeTx) Rollback(ctx context.Context) error { tx.rolledNum++; return nil }
func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("unexpected CopyFrom")
}
func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("unexpected SendBatch")
}
func (tx *fakeTx) LargeObjects() pgx.LargeObjects { panic("unexpected LargeObjects") }
func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("unexpected Prepare")
}
func (tx *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	tx.execs = append(tx.execs, sql)
	if tx.execErrAt == len(tx.execs) {
		return pgconn.CommandTag{}, errors.New("exec")
	}
	if tx.execZeroAt == len(tx.execs) {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}
func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}
func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("unexpected QueryRow")
}
func (tx *fakeTx) Conn() *pgx.Conn { return nil }

/* ---------- 測試 ---------- */

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		require.Contains(t, sql, "WHERE id = $1")
		require.Equal(t, []any{5}, args)
		return &fakeUserRow{user: &model.User{ID: 5, Username: "alice", Email: "alice@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}}
	}}
	u, err := GetUserByID(ctx, db, 5)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeUserRow{scanErr: pgx.ErrNoRows}
	}
	_, err = GetUserByID(ctx, db, 5)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestGetUserByEmail(t *testing.T) {
	ctx := context.Background()

	db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		require.Contains(t, sql, "WHERE email = $1")
		require.Equal(t, []any{"alice@example.com"}, args)
		return &fakeUserRow{user: &model.User{ID: 1, Email: "alice@example.com"}}
	}}
	u, err := GetUserByEmail(ctx, db, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeUserRow{scanErr: pgx.ErrNoRows}
	}
	_, err = GetUserByEmail(ctx, db, "nobody@example.com")
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	db := &database.FakeDB{QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return nil, errors.New("query")
	}}
	_, err := ListUsers(ctx, db, 0, 10)
	require.Error(t, err)

	db.QueryFn = func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		require.Contains(t, sql, "OFFSET $1 LIMIT $2")
		require.Equal(t, []any{2, 10}, args)
		return &fakeUserRows{data: []model.User{{ID: 3}, {ID: 4}}}, nil
	}
	users, err := ListUsers(ctx, db, 2, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, 3, users[0].ID)

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeUserRows{data: []model.User{{ID: 1}}, scanErr: errors.New("scan")}, nil
	}
	_, err = ListUsers(ctx, db, 0, 10)
	require.Error(t, err)

	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeUserRows{err: errors.New("rows")}, nil
	}
	_, err = ListUsers(ctx, db, 0, 10)
	require.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		require.Contains(t, sql, "INSERT INTO users")
		require.Equal(t, []any{"alice", "alice@example.com", "hash"}, args)
		return &fakeUserRow{user: &model.User{ID: 1, CreatedAt: now, UpdatedAt: now}}
	}}
	u, err := CreateUser(ctx, db, &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.Equal(t, now, u.CreatedAt)

	// 唯一性衝突以 SQLSTATE 23505 判斷
	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
	}
	_, err = CreateUser(ctx, db, &model.User{Username: "alice", Email: "other@example.com"})
	require.ErrorIs(t, err, ErrDuplicateUser)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeUserRow{scanErr: errors.New("boom")}
	}
	_, err = CreateUser(ctx, db, &model.User{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateUser)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		require.Contains(t, sql, "UPDATE users")
		require.Contains(t, sql, "updated_at = now()")
		require.Equal(t, []any{"alice", "alice@example.com", "hash", 1}, args)
		return &fakeUserRow{user: &model.User{UpdatedAt: now}}
	}}
	u := &model.User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, UpdateUser(ctx, db, u))
	require.Equal(t, now, u.UpdatedAt)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeUserRow{scanErr: &pgconn.PgError{Code: "23505"}}
	}
	require.ErrorIs(t, UpdateUser(ctx, db, u), ErrDuplicateUser)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return &fakeUserRow{scanErr: pgx.ErrNoRows}
	}
	require.ErrorIs(t, UpdateUser(ctx, db, u), pgx.ErrNoRows)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	db := &database.FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) {
		return nil, errors.New("begin")
	}}
	require.Error(t, DeleteUser(ctx, db, 1))

	// todos 先刪，users 後刪，同一交易內提交
	tx := &fakeTx{}
	db.BeginFn = func(context.Context) (pgx.Tx, error) { return tx, nil }
	require.NoError(t, DeleteUser(ctx, db, 1))
	require.Len(t, tx.execs, 2)
	require.True(t, strings.Contains(tx.execs[0], "DELETE FROM todos"))
	require.True(t, strings.Contains(tx.execs[1], "DELETE FROM users"))
	require.True(t, tx.committed)

	tx = &fakeTx{execErrAt: 1}
	db.BeginFn = func(context.Context) (pgx.Tx, error) { return tx, nil }
	require.Error(t, DeleteUser(ctx, db, 1))
	require.False(t, tx.committed)
	require.Equal(t, 1, tx.rolledNum)

	tx = &fakeTx{execErrAt: 2}
	db.BeginFn = func(context.Context) (pgx.Tx, error) { return tx, nil }
	require.Error(t, DeleteUser(ctx, db, 1))
	require.False(t, tx.committed)

	// users 沒有刪到任何列時不提交，回報 ErrUserNotFound
	tx = &fakeTx{execZeroAt: 2}
	db.BeginFn = func(context.Context) (pgx.Tx, error) { return tx, nil }
	require.ErrorIs(t, DeleteUser(ctx, db, 1), ErrUserNotFound)
	require.False(t, tx.committed)
	require.Equal(t, 1, tx.rolledNum)

	tx = &fakeTx{commitErr: errors.New("commit")}
	db.BeginFn = func(context.Context) (pgx.Tx, error) { return tx, nil }
	require.Error(t, DeleteUser(ctx, db, 1))
}
