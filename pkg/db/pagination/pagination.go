package pagination

import "gorm.io/gorm"

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Params is the normalized page window extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// Normalize clamps the window to sane bounds.
func Normalize(limit, offset int) Params {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Apply is a gorm scope applying the window to a query.
func (p Params) Apply(tx *gorm.DB) *gorm.DB {
	return tx.Limit(p.Limit).Offset(p.Offset)
}
