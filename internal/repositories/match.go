package repositories

import "gorm.io/gorm"

// matchClause builds the WHERE fragment for Find: exact match, or
// pattern match on the column when regex is requested. The column name
// comes from the caller and is interpolated as-is; the search value is
// always bound. Wildcard search over arbitrary columns is a deliberate,
// loose capability.
func matchClause(db *gorm.DB, column string, regex bool) string {
	if !regex {
		return column + " = ?"
	}
	if db.Dialector.Name() == "postgres" {
		return column + " ~ ?"
	}
	return column + " REGEXP ?"
}
