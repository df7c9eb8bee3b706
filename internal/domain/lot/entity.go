package lot

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice = errors.New("lot price must be positive")
	ErrInvalidUnits = errors.New("reserved units must not exceed available units")
)

// Lot is one discrete, single-unit stock item. Rows are created by the
// catalog collaborator and deleted permanently when sold.
type Lot struct {
	id          uuid.UUID
	city        string
	district    string
	productType string
	size        string
	name        string
	price       decimal.Decimal
	available   int32
	reserved    int32
	createdAt   time.Time
}

func New(
	id uuid.UUID,
	city, district, productType, size, name string,
	price decimal.Decimal,
	available, reserved int32,
	createdAt time.Time,
) (*Lot, error) {
	if price.IsNegative() || price.IsZero() {
		return nil, ErrInvalidPrice
	}
	if reserved < 0 || reserved > available {
		return nil, ErrInvalidUnits
	}
	return &Lot{
		id:          id,
		city:        city,
		district:    district,
		productType: productType,
		size:        size,
		name:        name,
		price:       price,
		available:   available,
		reserved:    reserved,
		createdAt:   createdAt,
	}, nil
}

// Purchasable reports whether the lot has free stock right now.
func (l *Lot) Purchasable() bool {
	return l.available > l.reserved
}

func (l *Lot) ID() uuid.UUID          { return l.id }
func (l *Lot) City() string           { return l.city }
func (l *Lot) District() string       { return l.district }
func (l *Lot) ProductType() string    { return l.productType }
func (l *Lot) Size() string           { return l.size }
func (l *Lot) Name() string           { return l.name }
func (l *Lot) Price() decimal.Decimal { return l.price }
func (l *Lot) Available() int32       { return l.available }
func (l *Lot) Reserved() int32        { return l.reserved }
func (l *Lot) CreatedAt() time.Time   { return l.createdAt }

// Filter narrows free-stock listings for the browsing surface.
// Zero values mean "any".
type Filter struct {
	City        string
	District    string
	ProductType string
	Size        string
}
