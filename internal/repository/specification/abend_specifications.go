package specification

import (
	"strings"

	"abend-assist-be/pkg/abend"

	"gorm.io/gorm"
)

// ByCode matches one abend code, ignoring case.
type ByCode struct {
	Code string
}

func (s ByCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("code = ?", abend.CanonicalCode(s.Code))
}

// CodeIn keeps the listed codes.
type CodeIn struct {
	Codes []string
}

func (s CodeIn) Apply(db *gorm.DB) *gorm.DB {
	codes := make([]string, len(s.Codes))
	for i, c := range s.Codes {
		codes[i] = abend.CanonicalCode(c)
	}
	return db.Where("code IN ?", codes)
}

// NameContains is a case-insensitive substring match on the abend name.
type NameContains struct {
	Text string
}

func (s NameContains) Apply(db *gorm.DB) *gorm.DB {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return db.Where("name ILIKE ?", "%"+r.Replace(strings.TrimSpace(s.Text))+"%")
}
