// Package orm is a thin fluent wrapper over GORM. Repositories use it
// instead of raw *gorm.DB so pagination, query timing, and read-through
// caching are applied uniformly.
package orm

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/dkrylov/camshop/pkg/database"
	"github.com/dkrylov/camshop/pkg/metrics"
)

// Cacher is the read-through cache used by Query.Cache. Wired to pkg/cache
// at boot; kept as an interface so orm does not import the cache package.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is injected by internal/server during boot.
var CacheStore Cacher

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a new query against the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap lifts an existing *gorm.DB (e.g. a transaction) into a Query.
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Joins(clause string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(clause, args...)}
}

func (q *Query) Preload(relation string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(relation, args...)}
}

func (q *Query) Select(columns string, args ...interface{}) *Query {
	return &Query{db: q.db.Select(columns, args...)}
}

func (q *Query) Group(name string) *Query {
	return &Query{db: q.db.Group(name)}
}

func (q *Query) Order(clause string) *Query {
	return &Query{db: q.db.Order(clause)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

// Scan runs the built query into an arbitrary destination (aggregates).
func (q *Query) Scan(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Scan(dest).Error
}

// Pluck collects a single column into dest.
func (q *Query) Pluck(column string, dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Pluck(column, dest).Error
}

// Count returns the number of matching rows.
func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Create inserts v.
func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

// Save upserts v by primary key.
func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Updates applies a partial update from a map or struct.
func (q *Query) Updates(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Updates(v).Error
}

// Delete removes matching rows (soft delete for gorm.Model types).
func (q *Query) Delete(v interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(v).Error
}

// GetWithPagination loads one page into dest and returns page metadata.
// page is clamped to >= 1; limit must be positive.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	err := q.db.Limit(limit).Offset((page - 1) * limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Cache is a read-through helper: on a hit dest is filled from the cache,
// on a miss the query runs and the result is stored under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.Get(dest); err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// Expr builds a raw SQL expression for use in Updates maps, e.g.
// orm.Expr("stock_quantity - ?", qty).
func Expr(sql string, args ...interface{}) interface{} {
	return gorm.Expr(sql, args...)
}

// Transaction runs fn inside a database transaction.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(Wrap(tx))
	})
}
