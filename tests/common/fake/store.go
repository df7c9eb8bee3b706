// Package fake provides an in-memory rendition of the persistence layer
// for command tests. Within snapshots state before each unit of work and
// restores it when the callback errors, mirroring transaction rollback.
package fake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront-engine/internal/domain/basket"
	"storefront-engine/internal/domain/discount"
	"storefront-engine/internal/domain/lot"
	"storefront-engine/internal/domain/payment"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountRow struct {
	ID        uuid.UUID
	Code      string
	Type      discount.Type
	Value     decimal.Decimal
	Active    bool
	MaxUses   *int32
	UsesCount int32
	ExpiresAt *time.Time
}

type ShopperRow struct {
	Balance        decimal.Decimal
	TotalPurchases int32
	DiscountCode   *string
	CreatedAt      time.Time
}

type ProcessedRow struct {
	ShopperID uuid.UUID
	Amount    decimal.Decimal
}

type Store struct {
	mu        sync.Mutex
	Lots      map[uuid.UUID]shared.LotSnapshot
	Holds     map[uuid.UUID]basket.Hold
	Discounts map[string]*DiscountRow
	Shoppers  map[uuid.UUID]*ShopperRow
	Sales     []shared.SaleRecord
	Pending   map[int64]payment.PendingInvoice
	Processed map[int64]ProcessedRow
}

func NewStore() *Store {
	return &Store{
		Lots:      make(map[uuid.UUID]shared.LotSnapshot),
		Holds:     make(map[uuid.UUID]basket.Hold),
		Discounts: make(map[string]*DiscountRow),
		Shoppers:  make(map[uuid.UUID]*ShopperRow),
		Pending:   make(map[int64]payment.PendingInvoice),
		Processed: make(map[int64]ProcessedRow),
	}
}

func (s *Store) AddLot(snap shared.LotSnapshot) {
	s.Lots[snap.ID] = snap
}

func (s *Store) AddShopper(id uuid.UUID, balance decimal.Decimal) {
	s.Shoppers[id] = &ShopperRow{Balance: balance, CreatedAt: time.Now()}
}

func (s *Store) AddDiscount(row DiscountRow) {
	s.Discounts[row.Code] = &row
}

func (s *Store) HoldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Holds)
}

type snapshot struct {
	lots      map[uuid.UUID]shared.LotSnapshot
	holds     map[uuid.UUID]basket.Hold
	discounts map[string]DiscountRow
	shoppers  map[uuid.UUID]ShopperRow
	sales     []shared.SaleRecord
	pending   map[int64]payment.PendingInvoice
	processed map[int64]ProcessedRow
}

func (s *Store) capture() snapshot {
	snap := snapshot{
		lots:      make(map[uuid.UUID]shared.LotSnapshot, len(s.Lots)),
		holds:     make(map[uuid.UUID]basket.Hold, len(s.Holds)),
		discounts: make(map[string]DiscountRow, len(s.Discounts)),
		shoppers:  make(map[uuid.UUID]ShopperRow, len(s.Shoppers)),
		sales:     append([]shared.SaleRecord(nil), s.Sales...),
		pending:   make(map[int64]payment.PendingInvoice, len(s.Pending)),
		processed: make(map[int64]ProcessedRow, len(s.Processed)),
	}
	for k, v := range s.Lots {
		snap.lots[k] = v
	}
	for k, v := range s.Holds {
		snap.holds[k] = v
	}
	for k, v := range s.Discounts {
		snap.discounts[k] = *v
	}
	for k, v := range s.Shoppers {
		snap.shoppers[k] = *v
	}
	for k, v := range s.Pending {
		snap.pending[k] = v
	}
	for k, v := range s.Processed {
		snap.processed[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.Lots = snap.lots
	s.Holds = snap.holds
	s.Sales = snap.sales
	s.Pending = snap.pending
	s.Processed = snap.processed
	s.Discounts = make(map[string]*DiscountRow, len(snap.discounts))
	for k, v := range snap.discounts {
		row := v
		s.Discounts[k] = &row
	}
	s.Shoppers = make(map[uuid.UUID]*ShopperRow, len(snap.shoppers))
	for k, v := range snap.shoppers {
		row := v
		s.Shoppers[k] = &row
	}
}

// UnitOfWork runs callbacks against the store under a single lock, so
// each Within observes and mutates state atomically like a serializable
// transaction would.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.capture()
	if err := fn(ctx, &fakeTx{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type fakeTx struct {
	store *Store
}

func (t *fakeTx) Lots() shared.LotRepository           { return &lotRepo{t.store} }
func (t *fakeTx) Holds() shared.HoldRepository         { return &holdRepo{t.store} }
func (t *fakeTx) Discounts() shared.DiscountRepository { return &discountRepo{t.store} }
func (t *fakeTx) Shoppers() shared.ShopperRepository   { return &shopperRepo{t.store} }
func (t *fakeTx) Sales() shared.SaleRepository         { return &saleRepo{t.store} }
func (t *fakeTx) Invoices() shared.InvoiceRepository   { return &invoiceRepo{t.store} }

type lotRepo struct{ s *Store }

func (r *lotRepo) TryReserve(_ context.Context, lotID uuid.UUID) (bool, error) {
	snap, ok := r.s.Lots[lotID]
	if !ok || snap.Available <= snap.Reserved {
		return false, nil
	}
	snap.Reserved++
	r.s.Lots[lotID] = snap
	return true, nil
}

func (r *lotRepo) Release(_ context.Context, lotID uuid.UUID) error {
	snap, ok := r.s.Lots[lotID]
	if !ok {
		return nil
	}
	if snap.Reserved > 0 {
		snap.Reserved--
	}
	r.s.Lots[lotID] = snap
	return nil
}

func (r *lotRepo) FinalizeSale(_ context.Context, lotID uuid.UUID) (*shared.LotSnapshot, error) {
	snap, ok := r.s.Lots[lotID]
	if !ok || snap.Reserved < 1 {
		return nil, nil
	}
	delete(r.s.Lots, lotID)
	return &snap, nil
}

func (r *lotRepo) Delete(_ context.Context, lotID uuid.UUID) (bool, error) {
	_, ok := r.s.Lots[lotID]
	delete(r.s.Lots, lotID)
	return ok, nil
}

func (r *lotRepo) FindByID(_ context.Context, lotID uuid.UUID) (*lot.Lot, error) {
	snap, ok := r.s.Lots[lotID]
	if !ok {
		return nil, notFound("lot not found")
	}
	return lot.New(
		snap.ID, snap.City, snap.District, snap.ProductType, snap.Size,
		snap.Name, snap.Price, snap.Available, snap.Reserved, time.Now(),
	)
}

func (r *lotRepo) FindByIDs(_ context.Context, lotIDs []uuid.UUID) (map[uuid.UUID]shared.LotSnapshot, error) {
	found := make(map[uuid.UUID]shared.LotSnapshot)
	for _, id := range lotIDs {
		if snap, ok := r.s.Lots[id]; ok {
			found[id] = snap
		}
	}
	return found, nil
}

func (r *lotRepo) FreeStock(_ context.Context, filter lot.Filter) ([]shared.LotSnapshot, error) {
	var lots []shared.LotSnapshot
	for _, snap := range r.s.Lots {
		if snap.Available <= snap.Reserved {
			continue
		}
		if filter.City != "" && snap.City != filter.City {
			continue
		}
		if filter.District != "" && snap.District != filter.District {
			continue
		}
		if filter.ProductType != "" && snap.ProductType != filter.ProductType {
			continue
		}
		if filter.Size != "" && snap.Size != filter.Size {
			continue
		}
		lots = append(lots, snap)
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].ID.String() < lots[j].ID.String() })
	return lots, nil
}

type holdRepo struct{ s *Store }

func (r *holdRepo) Insert(_ context.Context, h basket.Hold) error {
	r.s.Holds[h.ID] = h
	return nil
}

func (r *holdRepo) ListByShopper(_ context.Context, shopperID uuid.UUID) ([]basket.Hold, error) {
	var holds []basket.Hold
	for _, h := range r.s.Holds {
		if h.ShopperID == shopperID {
			holds = append(holds, h)
		}
	}
	sortHolds(holds)
	return holds, nil
}

func (r *holdRepo) DeleteOldestForLot(_ context.Context, shopperID, lotID uuid.UUID) (bool, error) {
	var matches []basket.Hold
	for _, h := range r.s.Holds {
		if h.ShopperID == shopperID && h.LotID == lotID {
			matches = append(matches, h)
		}
	}
	if len(matches) == 0 {
		return false, nil
	}
	sortHolds(matches)
	delete(r.s.Holds, matches[0].ID)
	return true, nil
}

func (r *holdRepo) Delete(_ context.Context, holdID uuid.UUID) (bool, error) {
	_, ok := r.s.Holds[holdID]
	delete(r.s.Holds, holdID)
	return ok, nil
}

func (r *holdRepo) DeleteByShopper(_ context.Context, shopperID uuid.UUID) ([]uuid.UUID, error) {
	var lotIDs []uuid.UUID
	for id, h := range r.s.Holds {
		if h.ShopperID == shopperID {
			lotIDs = append(lotIDs, h.LotID)
			delete(r.s.Holds, id)
		}
	}
	return lotIDs, nil
}

func (r *holdRepo) DeleteExpired(_ context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	var lotIDs []uuid.UUID
	for id, h := range r.s.Holds {
		if h.CreatedAt.Before(cutoff) {
			lotIDs = append(lotIDs, h.LotID)
			delete(r.s.Holds, id)
		}
	}
	return lotIDs, nil
}

func (r *holdRepo) DeleteByLot(_ context.Context, lotID uuid.UUID) ([]uuid.UUID, error) {
	var shopperIDs []uuid.UUID
	for id, h := range r.s.Holds {
		if h.LotID == lotID {
			shopperIDs = append(shopperIDs, h.ShopperID)
			delete(r.s.Holds, id)
		}
	}
	return shopperIDs, nil
}

func sortHolds(holds []basket.Hold) {
	sort.Slice(holds, func(i, j int) bool {
		if !holds[i].CreatedAt.Equal(holds[j].CreatedAt) {
			return holds[i].CreatedAt.Before(holds[j].CreatedAt)
		}
		return holds[i].ID.String() < holds[j].ID.String()
	})
}

type discountRepo struct{ s *Store }

func (r *discountRepo) FindByCode(_ context.Context, code string) (*discount.Code, error) {
	row, ok := r.s.Discounts[normalizeCode(code)]
	if !ok {
		return nil, notFound("discount code not found")
	}
	return discount.NewCode(row.ID, row.Code, row.Type, row.Value, row.Active, row.MaxUses, row.UsesCount, row.ExpiresAt)
}

func (r *discountRepo) IncrementUses(_ context.Context, code string) error {
	if row, ok := r.s.Discounts[normalizeCode(code)]; ok {
		row.UsesCount++
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type shopperRepo struct{ s *Store }

func (r *shopperRepo) EnsureExists(_ context.Context, shopperID uuid.UUID) error {
	if _, ok := r.s.Shoppers[shopperID]; !ok {
		r.s.Shoppers[shopperID] = &ShopperRow{Balance: decimal.Zero, CreatedAt: time.Now()}
	}
	return nil
}

func (r *shopperRepo) BalanceForUpdate(_ context.Context, shopperID uuid.UUID) (decimal.Decimal, error) {
	row, ok := r.s.Shoppers[shopperID]
	if !ok {
		return decimal.Zero, notFound("shopper not found")
	}
	return row.Balance, nil
}

func (r *shopperRepo) Debit(_ context.Context, shopperID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	row, ok := r.s.Shoppers[shopperID]
	if !ok || row.Balance.LessThan(amount) {
		return decimal.Zero, notFound("insufficient balance")
	}
	row.Balance = row.Balance.Sub(amount)
	return row.Balance, nil
}

func (r *shopperRepo) Credit(_ context.Context, shopperID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	row, ok := r.s.Shoppers[shopperID]
	if !ok {
		return decimal.Zero, notFound("shopper not found")
	}
	row.Balance = row.Balance.Add(amount)
	return row.Balance, nil
}

func (r *shopperRepo) AppliedDiscountCode(_ context.Context, shopperID uuid.UUID) (*string, error) {
	row, ok := r.s.Shoppers[shopperID]
	if !ok {
		return nil, nil
	}
	return row.DiscountCode, nil
}

func (r *shopperRepo) SetDiscountCode(_ context.Context, shopperID uuid.UUID, code *string) error {
	if row, ok := r.s.Shoppers[shopperID]; ok {
		row.DiscountCode = code
	}
	return nil
}

func (r *shopperRepo) BumpPurchases(_ context.Context, shopperID uuid.UUID, n int32) error {
	if row, ok := r.s.Shoppers[shopperID]; ok {
		row.TotalPurchases += n
	}
	return nil
}

func (r *shopperRepo) Profile(_ context.Context, shopperID uuid.UUID) (*shared.ShopperProfile, error) {
	row, ok := r.s.Shoppers[shopperID]
	if !ok {
		return nil, notFound("shopper not found")
	}
	return &shared.ShopperProfile{
		ID:             shopperID,
		Balance:        row.Balance,
		TotalPurchases: row.TotalPurchases,
		CreatedAt:      row.CreatedAt,
	}, nil
}

type saleRepo struct{ s *Store }

func (r *saleRepo) Insert(_ context.Context, rec shared.SaleRecord) error {
	r.s.Sales = append(r.s.Sales, rec)
	return nil
}

func (r *saleRepo) ListRecent(_ context.Context, shopperID uuid.UUID, limit int32) ([]shared.SaleRecord, error) {
	var records []shared.SaleRecord
	for i := len(r.s.Sales) - 1; i >= 0 && int32(len(records)) < limit; i-- {
		if r.s.Sales[i].ShopperID == shopperID {
			records = append(records, r.s.Sales[i])
		}
	}
	return records, nil
}

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) InsertPending(_ context.Context, inv payment.PendingInvoice) error {
	r.s.Pending[inv.InvoiceID] = inv
	return nil
}

func (r *invoiceRepo) FindPending(_ context.Context, shopperID uuid.UUID, invoiceID int64) (*payment.PendingInvoice, error) {
	inv, ok := r.s.Pending[invoiceID]
	if !ok || inv.ShopperID != shopperID {
		return nil, notFound("pending invoice not found")
	}
	return &inv, nil
}

func (r *invoiceRepo) DeletePending(_ context.Context, invoiceID int64) error {
	delete(r.s.Pending, invoiceID)
	return nil
}

func (r *invoiceRepo) MarkProcessed(_ context.Context, invoiceID int64, shopperID uuid.UUID, amount decimal.Decimal) (bool, error) {
	if _, ok := r.s.Processed[invoiceID]; ok {
		return false, nil
	}
	r.s.Processed[invoiceID] = ProcessedRow{ShopperID: shopperID, Amount: amount}
	return true, nil
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}
