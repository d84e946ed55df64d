package database

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscape is the LIKE escape character; '!' needs no quoting in any supported dialect.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// OwnedBy restricts a query to rows belonging to userID.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// EqualIfSet adds "column = value" unless value is empty.
func EqualIfSet(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// ContainsAny matches rows where any of columns contains term as a substring.
// LIKE wildcards inside term are matched literally. GORM parenthesizes the OR
// group when it is combined with other conditions.
func ContainsAny(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + likeReplacer.Replace(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = col + " LIKE ? ESCAPE '" + likeEscape + "'"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// NewestFirst orders by creation time descending, breaking ties by id.
func NewestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
}
