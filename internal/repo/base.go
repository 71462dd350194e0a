package repo

import (
	"context"
	"strings"
	"unicode"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// PrefixTSQuery turns free text into a to_tsquery expression where every
// word matches as a prefix ("cham bar" becomes "cham:* & bar:*"). Non
// alphanumeric runes are stripped so user input cannot inject tsquery
// syntax. Returns "" when nothing searchable remains.
func PrefixTSQuery(input string) string {
	words := strings.Fields(input)
	lexemes := make([]string, 0, len(words))
	for _, word := range words {
		var sb strings.Builder
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				sb.WriteRune(unicode.ToLower(r))
			}
		}
		if sb.Len() > 0 {
			lexemes = append(lexemes, sb.String()+":*")
		}
	}
	return strings.Join(lexemes, " & ")
}
