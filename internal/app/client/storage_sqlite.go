package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
	"lensadmin/internal/infrastructure/migration"
)

const lensColumns = `id, lens_type, sphere, cylinder, unit_price, quantity, storage_limit,
	comment, created_at, updated_at, deleted_at`

type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage накатывает миграции и открывает локальную базу по пути path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if err := migration.NewMigration(path, nil).Up(); err != nil {
		return nil, fmt.Errorf("ошибка миграции локальной базы: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) ReplaceAll(ctx context.Context, lenses []lens.Lens, snap Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM lenses"); err != nil {
		return fmt.Errorf("ошибка очистки локальной копии: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lenses (`+lensColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for _, l := range lenses {
		var deletedAt any
		if l.DeletedAt != nil {
			deletedAt = formatTime(*l.DeletedAt)
		}
		if _, err = stmt.ExecContext(ctx,
			l.ID, string(l.LensType), l.Sphere.String(), l.Cylinder.String(), l.UnitPrice.String(),
			l.Quantity, l.StorageLimit, l.Comment,
			formatTime(l.CreatedAt), formatTime(l.UpdatedAt), deletedAt,
		); err != nil {
			return fmt.Errorf("ошибка сохранения линзы %d: %w", l.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (api_url, total, pulled_at) VALUES (?, ?, ?)",
		snap.APIURL, snap.Total, formatTime(snap.PulledAt),
	); err != nil {
		return fmt.Errorf("ошибка сохранения сведений о выгрузке: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) List(ctx context.Context, params dataprovider.ListParams) ([]lens.Lens, int64, error) {
	where, args, err := buildWhere(params.Filters, " AND ")
	if err != nil {
		return nil, 0, err
	}
	orderBy, err := buildOrderBy(params.Sorters)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lenses WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	offset, limit := pageBounds(params.Pagination)
	query := "SELECT " + lensColumns + " FROM lenses WHERE " + where + " ORDER BY " + orderBy + " LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	lenses := make([]lens.Lens, 0)
	for rows.Next() {
		l, err := scanLens(rows)
		if err != nil {
			return nil, 0, err
		}
		lenses = append(lenses, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения результатов: %w", err)
	}

	return lenses, total, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, id int64) (*lens.Lens, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+lensColumns+" FROM lenses WHERE id = ?", id)
	l, err := scanLens(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SQLiteStorage) LastSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	var pulledAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT api_url, total, pulled_at FROM snapshots ORDER BY id DESC LIMIT 1",
	).Scan(&snap.APIURL, &snap.Total, &pulledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сведений о выгрузке: %w", err)
	}

	if snap.PulledAt, err = time.Parse(timeLayout, pulledAt); err != nil {
		return nil, fmt.Errorf("ошибка парсинга времени выгрузки: %w", err)
	}
	return &snap, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLens(row rowScanner) (*lens.Lens, error) {
	var (
		l                                 lens.Lens
		lensType, sphere, cylinder, price string
		createdAt, updatedAt              string
		storageLimit                      sql.NullInt64
		comment, deletedAt                sql.NullString
	)

	err := row.Scan(&l.ID, &lensType, &sphere, &cylinder, &price, &l.Quantity,
		&storageLimit, &comment, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
	}

	l.LensType = lens.Type(lensType)
	if l.Sphere, err = decimal.NewFromString(sphere); err != nil {
		return nil, fmt.Errorf("ошибка парсинга sphere линзы %d: %w", l.ID, err)
	}
	if l.Cylinder, err = decimal.NewFromString(cylinder); err != nil {
		return nil, fmt.Errorf("ошибка парсинга cylinder линзы %d: %w", l.ID, err)
	}
	if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("ошибка парсинга unit_price линзы %d: %w", l.ID, err)
	}
	if storageLimit.Valid {
		limit := int(storageLimit.Int64)
		l.StorageLimit = &limit
	}
	if comment.Valid {
		c := comment.String
		l.Comment = &c
	}

	// Парсим временные метки
	if l.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("ошибка парсинга created_at линзы %d: %w", l.ID, err)
	}
	if l.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("ошибка парсинга updated_at линзы %d: %w", l.ID, err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(timeLayout, deletedAt.String)
		if err != nil {
			return nil, fmt.Errorf("ошибка парсинга deleted_at линзы %d: %w", l.ID, err)
		}
		l.DeletedAt = &t
	}

	return &l, nil
}

// columnExpr возвращает выражение столбца; десятичные поля хранятся текстом и сравниваются как REAL.
func columnExpr(field string) (string, fieldKind, error) {
	kind, err := lookupField(field)
	if err != nil {
		return "", 0, err
	}
	if kind == kindDecimal {
		return "CAST(" + field + " AS REAL)", kind, nil
	}
	return field, kind, nil
}

func buildWhere(filters []dataprovider.Filter, sep string) (string, []any, error) {
	if len(filters) == 0 {
		if sep == " OR " {
			return "0", nil, nil
		}
		return "1", nil, nil
	}

	parts := make([]string, 0, len(filters))
	var args []any
	for _, f := range filters {
		clause, clauseArgs, err := buildClause(f)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, clause)
		args = append(args, clauseArgs...)
	}
	return "(" + strings.Join(parts, sep) + ")", args, nil
}

func buildClause(f dataprovider.Filter) (string, []any, error) {
	if isConditional(f) {
		nested, err := nestedFilters(f)
		if err != nil {
			return "", nil, err
		}
		sep := " AND "
		if f.Operator == "or" {
			sep = " OR "
		}
		return buildWhere(nested, sep)
	}

	col, kind, err := columnExpr(f.Field)
	if err != nil {
		return "", nil, err
	}

	switch f.Operator {
	case "null":
		return col + " IS NULL", nil, nil
	case "nnull":
		return col + " IS NOT NULL", nil, nil
	}

	var arg any
	if kind == kindInt || kind == kindDecimal {
		d, err := numericArg(f.Field, f.Value)
		if err != nil {
			return "", nil, err
		}
		arg = d.InexactFloat64()
		if kind == kindInt {
			col = "CAST(" + col + " AS REAL)"
		}
	} else {
		text := fmt.Sprint(f.Value)
		switch f.Operator {
		case "contains":
			return col + ` LIKE ? ESCAPE '\'`, []any{likePattern(text)}, nil
		case "ncontains":
			return col + ` NOT LIKE ? ESCAPE '\'`, []any{likePattern(text)}, nil
		}
		arg = text
	}

	op, ok := sqlOperators[f.Operator]
	if !ok {
		return "", nil, fmt.Errorf("%w: оператор %q", ErrUnsupportedFilter, f.Operator)
	}
	return col + " " + op + " ?", []any{arg}, nil
}

var sqlOperators = map[string]string{
	"eq":  "=",
	"ne":  "!=",
	"lt":  "<",
	"lte": "<=",
	"gt":  ">",
	"gte": ">=",
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func buildOrderBy(sorters []dataprovider.Sorter) (string, error) {
	parts := make([]string, 0, len(sorters)+1)
	for _, s := range sorters {
		col, _, err := columnExpr(s.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if s.Order == dataprovider.OrderDesc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", "), nil
}
