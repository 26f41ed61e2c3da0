package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"facility/infras/otel"
	"facility/infras/postgres"
	"facility/shared/constant"
	"facility/shared/dto"
	"facility/shared/logger"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("nothing to update")
)

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Repository maps one table onto T through its `db` struct tags. Embedded structs (such as
// the shared metadata) contribute their columns too.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       getColumns(reflect.TypeOf(zero)),
	}
}

func (repo *Repository[T]) scopeName(method string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, method)
}

func (repo *Repository[T]) fail(scope otel.Scope, err error, action string) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("insert"))
	defer scope.End()

	placeholders := make([]string, len(repo.columns))
	for idx, col := range repo.columns {
		placeholders[idx] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.columns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, err, "insert data")
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model)
}

// InsertTx inserts inside a caller-owned transaction.
func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Exist"))
	defer scope.End()

	where, args := repo.whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	exist := false

	if err := repo.namedGet(ctx, repo.db.Read, query, &exist, args); err != nil {
		return false, repo.fail(scope, err, "check exist data")
	}

	return exist, nil
}

// Get returns the zero T, not an error, when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, columns...)
}

// GetPrimary is Get against the write connection.
func (repo *Repository[T]) GetPrimary(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Write, filter, columns...)
}

func (repo *Repository[T]) get(ctx context.Context, db *sqlx.DB, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Get"))
	defer scope.End()

	where, args := repo.whereClause(filter)

	query := fmt.Sprintf("SELECT %s FROM %s %s LIMIT 1", repo.selectColumns(columns...), repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := repo.namedGet(ctx, db, query, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T

		return zero, nil
	}

	if err != nil {
		return model, repo.fail(scope, err, "get data")
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, repo.db.Read, params, filter, columns...)
}

// GetAllPrimary reads from the write connection, for reads that must observe the latest commit.
func (repo *Repository[T]) GetAllPrimary(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, repo.db.Write, params, filter, columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, db *sqlx.DB, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("GetAll"))
	defer scope.End()

	where, args := repo.whereClause(filter)
	ordering := repo.orderBy(params)
	pagination := paginate(params, args)

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s", repo.selectColumns(columns...), repo.table, where, ordering, pagination)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	prepare, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, err, "prepare statement")
	}
	defer prepare.Close()

	if err := prepare.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, err, "get all data")
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Count"))
	defer scope.End()

	where, args := repo.whereClause(filter)

	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s", repo.table, repo.primaryColumn, repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	if err := repo.namedGet(ctx, repo.db.Read, query, &count, args); err != nil {
		return 0, repo.fail(scope, err, "count data")
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Delete"))
	defer scope.End()

	where, args := repo.whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, err, "delete data")
	}

	return nil
}

// Update sets the given columns on every matching row. Column names must be trusted; values are bound.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.scopeName("Update"))
	defer scope.End()

	if len(mod) == 0 {
		return errEmptyUpdate
	}

	where, args := repo.whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	// set_ keeps update values apart from filter args that share a column name
	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = mod[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, err, "update data")
	}

	return nil
}

func (repo *Repository[T]) namedGet(ctx context.Context, db *sqlx.DB, query string, dest any, args map[string]any) error {
	prepare, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer prepare.Close()

	return prepare.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return where, map[string]any{}
	}

	return "WHERE " + where, args
}

// orderBy only honours columns of T, so the sort field can come straight from a query string.
// Anything else falls back to the primary key.
func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	direction := dto.SortDirAsc
	if strings.EqualFold(params.SortDir, dto.SortDirDesc) {
		direction = dto.SortDirDesc
	}

	if params.SortBy == "" || params.SortBy == repo.primaryColumn || !slices.Contains(repo.columns, params.SortBy) {
		return fmt.Sprintf("ORDER BY %s.%s %s", repo.table, repo.primaryColumn, direction)
	}

	// the primary key breaks ties so pages never overlap
	return fmt.Sprintf("ORDER BY %s.%s %s, %s.%s %s", repo.table, params.SortBy, direction, repo.table, repo.primaryColumn, direction)
}

func paginate(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit

	if params.Page <= 1 {
		return "LIMIT :limit"
	}

	args["offset"] = (params.Page - 1) * params.Limit

	return "LIMIT :limit OFFSET :offset"
}

func (repo *Repository[T]) selectColumns(only ...string) string {
	columns := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col) {
			continue
		}

		columns = append(columns, fmt.Sprintf("%s.%s", repo.table, col))
	}

	return strings.Join(columns, ", ")
}

func getColumns(reflectType reflect.Type) []string {
	columns := []string{}

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, getColumns(field.Type)...)

			continue
		}

		if dbTag := field.Tag.Get("db"); dbTag != "" && dbTag != "-" {
			columns = append(columns, dbTag)
		}
	}

	return columns
}
