package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/weddingplanner/internal/model"
	"github.com/mcoot/weddingplanner/internal/storage"
	"github.com/mcoot/weddingplanner/internal/storage/sqlite/migrations"
)

// Store is a SQLite-backed implementation of storage.Storage.
//
// The pool is limited to a single connection: SQLite has one writer, and
// serializing through one connection keeps AddMember's count-and-insert
// free of SQLITE_BUSY retries. The unique indexes remain the final guard.
type Store struct {
	db *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// connection pragmas applied to every connection via the DSN
const dsnParams = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// ValidatePath rejects database paths that cannot be embedded in the
// connection URI: empty paths and paths holding '?' or '#', which would be
// read as the start of the query or fragment
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("sqlite: database path is required")
	}
	if strings.ContainsAny(path, "?#") {
		return fmt.Errorf("sqlite: database path %q must not contain '?' or '#'", path)
	}
	return nil
}

// Open opens (creating if needed) the database at path and applies the
// bundled migrations. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+path+"?"+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	// An in-memory database lives only as long as its connection
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// uniqueViolation reports whether err is a UNIQUE constraint failure on the
// given table.column list, e.g. "members.couple_id, members.name"
func uniqueViolation(err error, columns string) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, columns)
}

// Couple operations

func (s *Store) CreateCouple(ctx context.Context, couple *model.Couple, founder *model.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create couple: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO couples (id, invite_code, created_at) VALUES (?, ?, ?)`,
		string(couple.ID), string(couple.InviteCode), toMillis(couple.CreatedAt),
	); err != nil {
		if uniqueViolation(err, "couples.invite_code") {
			return model.ErrInviteCodeTaken
		}
		return fmt.Errorf("insert couple: %w", err)
	}

	if founder != nil {
		if err := insertMember(ctx, tx, founder); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create couple: %w", err)
	}
	return nil
}

func (s *Store) GetCouple(ctx context.Context, id model.CoupleID) (*model.Couple, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, invite_code, created_at FROM couples WHERE id = ?`, string(id))
	return scanCouple(row)
}

func (s *Store) GetCoupleByInviteCode(ctx context.Context, code model.InviteCode) (*model.Couple, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, invite_code, created_at FROM couples WHERE invite_code = ?`, string(code))
	return scanCouple(row)
}

func (s *Store) UpdateInviteCode(ctx context.Context, id model.CoupleID, code model.InviteCode) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE couples SET invite_code = ? WHERE id = ?`, string(code), string(id))
	if err != nil {
		if uniqueViolation(err, "couples.invite_code") {
			return model.ErrInviteCodeTaken
		}
		return fmt.Errorf("update invite code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invite code: %w", err)
	}
	if n == 0 {
		return model.ErrCoupleNotFound
	}
	return nil
}

func (s *Store) ListCouples(ctx context.Context) ([]model.CoupleWithMembers, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, invite_code, created_at FROM couples ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}

	var result []model.CoupleWithMembers
	index := make(map[model.CoupleID]int)
	for rows.Next() {
		c, err := scanCouple(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		index[c.ID] = len(result)
		result = append(result, model.CoupleWithMembers{Couple: *c})
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}

	members, err := s.queryMembers(ctx, `SELECT `+memberColumns+` FROM members ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if i, ok := index[m.CoupleID]; ok {
			result[i].Members = append(result[i].Members, m)
		}
	}

	return result, nil
}

func (s *Store) DeleteCouple(ctx context.Context, id model.CoupleID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM couples WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete couple: %w", err)
	}
	return nil
}

// Member operations

const memberColumns = `id, couple_id, name, pin_hash, role, created_at`

func (s *Store) AddMember(ctx context.Context, member *model.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add member: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM couples WHERE id = ?`, string(member.CoupleID)).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrCoupleNotFound
	}
	if err != nil {
		return fmt.Errorf("check couple: %w", err)
	}

	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add member: %w", err)
	}
	return nil
}

// insertMember inserts a member only while the couple is below capacity.
// The count and the insert are one statement, so the capacity check cannot
// be raced by a concurrent join.
func insertMember(ctx context.Context, tx *sql.Tx, m *model.Member) error {
	res, err := tx.ExecContext(ctx, `
INSERT INTO members (`+memberColumns+`)
SELECT ?, ?, ?, ?, ?, ?
WHERE (SELECT COUNT(*) FROM members WHERE couple_id = ?) < ?`,
		string(m.ID), string(m.CoupleID), m.Name, m.PINHash, string(m.Role), toMillis(m.CreatedAt),
		string(m.CoupleID), model.MaxMembersPerCouple,
	)
	if err != nil {
		switch {
		case uniqueViolation(err, "members.couple_id, members.name"):
			return model.ErrDuplicateName
		case uniqueViolation(err, "members.couple_id, members.role"):
			return model.ErrCoupleFull
		}
		return fmt.Errorf("insert member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	if n == 0 {
		return model.ErrCoupleFull
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, id model.MemberID) (*model.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, string(id))
	return scanMember(row)
}

func (s *Store) ListMembers(ctx context.Context, coupleID model.CoupleID) ([]model.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members WHERE couple_id = ? ORDER BY rowid`, string(coupleID))
}

func (s *Store) FindMemberByCredentials(ctx context.Context, name, pinHash string) (*model.Member, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+memberColumns+` FROM members
WHERE name = ? AND pin_hash = ?
ORDER BY created_at, rowid
LIMIT 1`, name, pinHash)
	return scanMember(row)
}

func (s *Store) DeleteMember(ctx context.Context, id model.MemberID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (s *Store) queryMembers(ctx context.Context, query string, args ...any) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	return members, nil
}

// Checklist operations

const checklistColumns = `id, couple_id, title, category, due_date, done, created_at, updated_at`

func (s *Store) ListChecklistItems(ctx context.Context, coupleID model.CoupleID) ([]model.ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checklistColumns+` FROM checklist_items WHERE couple_id = ? ORDER BY rowid`, string(coupleID))
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ChecklistItem
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	return items, nil
}

func (s *Store) CreateChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checklist_items (`+checklistColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(item.ID), string(item.CoupleID), item.Title, item.Category,
		nullableMillis(item.DueDate), item.Done, toMillis(item.CreatedAt), toMillis(item.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return model.ErrCoupleNotFound
		}
		return fmt.Errorf("insert checklist item: %w", err)
	}
	return nil
}

func (s *Store) GetChecklistItem(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) (*model.ChecklistItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checklistColumns+` FROM checklist_items WHERE couple_id = ? AND id = ?`,
		string(coupleID), string(id))
	return scanChecklistItem(row)
}

func (s *Store) UpdateChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE checklist_items
SET title = ?, category = ?, due_date = ?, done = ?, updated_at = ?
WHERE couple_id = ? AND id = ?`,
		item.Title, item.Category, nullableMillis(item.DueDate), item.Done, toMillis(item.UpdatedAt),
		string(item.CoupleID), string(item.ID),
	)
	if err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	return expectOneRow(res, model.ErrChecklistItemNotFound)
}

func (s *Store) DeleteChecklistItem(ctx context.Context, coupleID model.CoupleID, id model.ChecklistItemID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM checklist_items WHERE couple_id = ? AND id = ?`, string(coupleID), string(id))
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return expectOneRow(res, model.ErrChecklistItemNotFound)
}

// Scanning helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanCouple(row scanner) (*model.Couple, error) {
	var (
		c         model.Couple
		id, code  string
		createdAt int64
	)
	if err := row.Scan(&id, &code, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCoupleNotFound
		}
		return nil, fmt.Errorf("scan couple: %w", err)
	}
	c.ID = model.CoupleID(id)
	c.InviteCode = model.InviteCode(code)
	c.CreatedAt = fromMillis(createdAt)
	return &c, nil
}

func scanMember(row scanner) (*model.Member, error) {
	var (
		id, coupleID, name, pinHash, role string
		createdAt                         int64
	)
	if err := row.Scan(&id, &coupleID, &name, &pinHash, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMemberNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	return &model.Member{
		ID:        model.MemberID(id),
		CoupleID:  model.CoupleID(coupleID),
		Name:      name,
		PINHash:   pinHash,
		Role:      model.Role(role),
		CreatedAt: fromMillis(createdAt),
	}, nil
}

func scanChecklistItem(row scanner) (*model.ChecklistItem, error) {
	var (
		id, coupleID, title, category string
		dueDate                       sql.NullInt64
		done                          bool
		createdAt, updatedAt          int64
	)
	if err := row.Scan(&id, &coupleID, &title, &category, &dueDate, &done, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrChecklistItemNotFound
		}
		return nil, fmt.Errorf("scan checklist item: %w", err)
	}
	item := &model.ChecklistItem{
		ID:        model.ChecklistItemID(id),
		CoupleID:  model.CoupleID(coupleID),
		Title:     title,
		Category:  category,
		Done:      done,
		CreatedAt: fromMillis(createdAt),
		UpdatedAt: fromMillis(updatedAt),
	}
	if dueDate.Valid {
		t := fromMillis(dueDate.Int64)
		item.DueDate = &t
	}
	return item, nil
}

func nullableMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
