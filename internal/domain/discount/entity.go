package discount

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

var ErrUnknownType = errors.New("unknown discount type")

// Code is a redeemable discount code. uses_count is mutated only by the
// settlement engine, exactly once per successful settlement.
type Code struct {
	id        uuid.UUID
	code      string
	dtype     Type
	value     decimal.Decimal
	active    bool
	maxUses   *int32
	usesCount int32
	expiresAt *time.Time
}

func NewCode(
	id uuid.UUID,
	code string,
	dtype Type,
	value decimal.Decimal,
	active bool,
	maxUses *int32,
	usesCount int32,
	expiresAt *time.Time,
) (*Code, error) {
	if dtype != TypePercentage && dtype != TypeFixed {
		return nil, ErrUnknownType
	}
	return &Code{
		id:        id,
		code:      code,
		dtype:     dtype,
		value:     value,
		active:    active,
		maxUses:   maxUses,
		usesCount: usesCount,
		expiresAt: expiresAt,
	}, nil
}

func (c *Code) ID() uuid.UUID          { return c.id }
func (c *Code) Code() string           { return c.code }
func (c *Code) Type() Type             { return c.dtype }
func (c *Code) Value() decimal.Decimal { return c.value }
func (c *Code) Active() bool           { return c.active }
func (c *Code) MaxUses() *int32        { return c.maxUses }
func (c *Code) UsesCount() int32       { return c.usesCount }
func (c *Code) ExpiresAt() *time.Time  { return c.expiresAt }
