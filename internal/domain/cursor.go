package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Key prefixes used in composite pagination cursors.
const (
	PrefixCompany    = "COMPANY#"
	PrefixActionItem = "ACTION_ITEM#"
	PrefixLog        = "LOG#"
)

// Cursor is the opaque composite key of the last item on a page.
// GSISK carries the creation time the listing is ordered by.
type Cursor struct {
	PK        string `json:"PK"`
	SK        string `json:"SK"`
	GSISK     string `json:"GSI_SK"`
	CompanyID string `json:"CompanyID"`
}

// NewCursor builds the cursor pointing at one row.
func NewCursor(prefix string, companyID, id uuid.UUID, createdAt int64) *Cursor {
	return &Cursor{
		PK:        PrefixCompany + companyID.String(),
		SK:        prefix + id.String(),
		GSISK:     strconv.FormatInt(createdAt, 10),
		CompanyID: companyID.String(),
	}
}

// IsZero reports whether the cursor is absent, i.e. the last page was reached.
func (c *Cursor) IsZero() bool {
	return c == nil || c.PK == ""
}

// Position decodes the keyset position (creation time, row id) of the cursor.
// The SK must carry the given prefix.
func (c *Cursor) Position(prefix string) (int64, uuid.UUID, error) {
	if c.IsZero() {
		return 0, uuid.Nil, fmt.Errorf("domain.Cursor.Position: %w", ErrInvalidCursor)
	}

	rawID, ok := strings.CutPrefix(c.SK, prefix)
	if !ok {
		return 0, uuid.Nil, fmt.Errorf("domain.Cursor.Position: sk %q: %w", c.SK, ErrInvalidCursor)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return 0, uuid.Nil, fmt.Errorf("domain.Cursor.Position: sk id: %w", ErrInvalidCursor)
	}
	createdAt, err := strconv.ParseInt(c.GSISK, 10, 64)
	if err != nil {
		return 0, uuid.Nil, fmt.Errorf("domain.Cursor.Position: gsi_sk: %w", ErrInvalidCursor)
	}

	return createdAt, id, nil
}
