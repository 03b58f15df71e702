// Package option carries composable gorm query options used by the generic
// repository.
package option

import "gorm.io/gorm"

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type orderBy struct {
	clause string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.clause) }

// OrderAsc sorts ascending by the given column.
func OrderAsc(field string) QueryOption { return orderBy{clause: field + " ASC"} }

// OrderDesc sorts descending by the given column.
func OrderDesc(field string) QueryOption { return orderBy{clause: field + " DESC"} }

type limit struct {
	n int
}

func (l limit) Apply(db *gorm.DB) *gorm.DB { return db.Limit(l.n) }

func Limit(n int) QueryOption { return limit{n: n} }

type in struct {
	field  string
	values any
}

func (i in) Apply(db *gorm.DB) *gorm.DB { return db.Where(i.field+" IN ?", i.values) }

// In filters rows whose column is in the given set.
func In(field string, values any) QueryOption { return in{field: field, values: values} }
