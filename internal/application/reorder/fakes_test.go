package reorder

import (
	"context"
	"fmt"
	"sort"

	"github.com/erp/reorder/internal/domain/audit"
	"github.com/erp/reorder/internal/domain/identity"
	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/notify"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/requisition"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories shared by the service tests.

type fakeItemRepo struct {
	items map[uuid.UUID]*inventory.InventoryItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *fakeItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Inventory item not found")
	}
	return item, nil
}

func (r *fakeItemRepo) FindByCode(_ context.Context, itemCode string) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.ItemCode == itemCode {
			return item, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Inventory item %s not found", itemCode))
}

func (r *fakeItemRepo) FindAll(_ context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	var out []inventory.InventoryItem
	for _, item := range r.items {
		if len(filter.ItemCodes) > 0 && !containsCode(filter.ItemCodes, item.ItemCode) {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return out, nil
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

type fakeStockRepo struct {
	records map[uuid.UUID][]*inventory.StockRecord
	failFor map[uuid.UUID]bool
	saveErr error
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		records: make(map[uuid.UUID][]*inventory.StockRecord),
		failFor: make(map[uuid.UUID]bool),
	}
}

func (r *fakeStockRepo) Save(_ context.Context, record *inventory.StockRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	for i, existing := range r.records[record.ItemID] {
		if existing.ID == record.ID {
			r.records[record.ItemID][i] = record
			return nil
		}
	}
	r.records[record.ItemID] = append(r.records[record.ItemID], record)
	return nil
}

func (r *fakeStockRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]inventory.StockRecord, error) {
	if r.failFor[itemID] {
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "stock lookup failed")
	}
	var out []inventory.StockRecord
	for _, record := range r.records[itemID] {
		out = append(out, *record)
	}
	return out, nil
}

func (r *fakeStockRepo) FindByItemAndLocation(_ context.Context, itemID uuid.UUID, locationCode string) (*inventory.StockRecord, error) {
	for _, record := range r.records[itemID] {
		if record.LocationCode == locationCode {
			return record, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Stock record not found")
}

type fakeDraftRepo struct {
	drafts map[uuid.UUID]*reorder.DraftPurchaseRequest
	seq    int
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[uuid.UUID]*reorder.DraftPurchaseRequest)}
}

func (r *fakeDraftRepo) Save(_ context.Context, draft *reorder.DraftPurchaseRequest) error {
	r.drafts[draft.ID] = draft
	return nil
}

func (r *fakeDraftRepo) FindByID(_ context.Context, id uuid.UUID) (*reorder.DraftPurchaseRequest, error) {
	draft, ok := r.drafts[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Draft purchase request not found")
	}
	return draft, nil
}

func (r *fakeDraftRepo) FindByNumber(_ context.Context, draftNumber string) (*reorder.DraftPurchaseRequest, error) {
	for _, draft := range r.drafts {
		if draft.DraftNumber == draftNumber {
			return draft, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Draft purchase request not found")
}

func (r *fakeDraftRepo) FindAll(_ context.Context, filter reorder.DraftFilter) ([]reorder.DraftPurchaseRequest, int64, error) {
	var out []reorder.DraftPurchaseRequest
	for _, draft := range r.drafts {
		if filter.Status != nil && draft.Status != *filter.Status {
			continue
		}
		out = append(out, *draft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DraftNumber < out[j].DraftNumber })
	return out, int64(len(out)), nil
}

func (r *fakeDraftRepo) GenerateDraftNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("RD-2026-%05d", r.seq), nil
}

type fakeUserRepo struct {
	users []identity.User
}

func (r *fakeUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			return &r.users[i], nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "User not found")
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role string) ([]identity.User, error) {
	var out []identity.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

type fakeNotifyRepo struct {
	saved []*notify.Notification
}

func (r *fakeNotifyRepo) Save(_ context.Context, notification *notify.Notification) error {
	r.saved = append(r.saved, notification)
	return nil
}

func (r *fakeNotifyRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]notify.Notification, error) {
	var out []notify.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	saved []*audit.AuditLog
}

func (r *fakeAuditRepo) Save(_ context.Context, log *audit.AuditLog) error {
	r.saved = append(r.saved, log)
	return nil
}

func (r *fakeAuditRepo) FindByDraftID(_ context.Context, draftID uuid.UUID) ([]audit.AuditLog, error) {
	var out []audit.AuditLog
	for _, log := range r.saved {
		if log.DraftID == draftID {
			out = append(out, *log)
		}
	}
	return out, nil
}

type fakeRequisitionRepo struct {
	saved []*requisition.Requisition
	seq   int
}

func (r *fakeRequisitionRepo) Save(_ context.Context, req *requisition.Requisition) error {
	r.saved = append(r.saved, req)
	return nil
}

func (r *fakeRequisitionRepo) FindByID(_ context.Context, id uuid.UUID) (*requisition.Requisition, error) {
	for _, req := range r.saved {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Requisition not found")
}

func (r *fakeRequisitionRepo) FindByNumber(_ context.Context, number string) (*requisition.Requisition, error) {
	for _, req := range r.saved {
		if req.Number == number {
			return req, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Requisition not found")
}

func (r *fakeRequisitionRepo) GenerateNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PR-2026-%05d", r.seq), nil
}

// fakeTxManager passes the unit of work through while recording whether
// it committed or the callback errored out.
type fakeTxManager struct {
	begun      int
	rolledBack int
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.begun++
	if err := fn(ctx); err != nil {
		m.rolledBack++
		return err
	}
	return nil
}
