package handler

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/erp/reorder/internal/domain/audit"
	"github.com/erp/reorder/internal/domain/identity"
	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/notify"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/requisition"
	"github.com/erp/reorder/internal/domain/shared"
)

// In-memory repositories backing the HTTP tests.

type stubItemRepo struct {
	items map[uuid.UUID]*inventory.InventoryItem
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *stubItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Inventory item not found")
	}
	return item, nil
}

func (r *stubItemRepo) FindByCode(_ context.Context, itemCode string) (*inventory.InventoryItem, error) {
	for _, item := range r.items {
		if item.ItemCode == itemCode {
			return item, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Inventory item %s not found", itemCode))
}

func (r *stubItemRepo) FindAll(_ context.Context, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	var out []inventory.InventoryItem
	for _, item := range r.items {
		if len(filter.ItemCodes) > 0 {
			found := false
			for _, code := range filter.ItemCodes {
				if code == item.ItemCode {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	return out, nil
}

type stubStockRepo struct {
	records map[uuid.UUID][]*inventory.StockRecord
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{records: make(map[uuid.UUID][]*inventory.StockRecord)}
}

func (r *stubStockRepo) Save(_ context.Context, record *inventory.StockRecord) error {
	for i, existing := range r.records[record.ItemID] {
		if existing.ID == record.ID {
			r.records[record.ItemID][i] = record
			return nil
		}
	}
	r.records[record.ItemID] = append(r.records[record.ItemID], record)
	return nil
}

func (r *stubStockRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]inventory.StockRecord, error) {
	var out []inventory.StockRecord
	for _, record := range r.records[itemID] {
		out = append(out, *record)
	}
	return out, nil
}

func (r *stubStockRepo) FindByItemAndLocation(_ context.Context, itemID uuid.UUID, locationCode string) (*inventory.StockRecord, error) {
	for _, record := range r.records[itemID] {
		if record.LocationCode == locationCode {
			return record, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Stock record not found")
}

type stubDraftRepo struct {
	drafts map[uuid.UUID]*reorder.DraftPurchaseRequest
	seq    int
}

func newStubDraftRepo() *stubDraftRepo {
	return &stubDraftRepo{drafts: make(map[uuid.UUID]*reorder.DraftPurchaseRequest)}
}

func (r *stubDraftRepo) Save(_ context.Context, draft *reorder.DraftPurchaseRequest) error {
	r.drafts[draft.ID] = draft
	return nil
}

func (r *stubDraftRepo) FindByID(_ context.Context, id uuid.UUID) (*reorder.DraftPurchaseRequest, error) {
	draft, ok := r.drafts[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Draft purchase request not found")
	}
	return draft, nil
}

func (r *stubDraftRepo) FindByNumber(_ context.Context, draftNumber string) (*reorder.DraftPurchaseRequest, error) {
	for _, draft := range r.drafts {
		if draft.DraftNumber == draftNumber {
			return draft, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Draft purchase request not found")
}

func (r *stubDraftRepo) FindAll(_ context.Context, filter reorder.DraftFilter) ([]reorder.DraftPurchaseRequest, int64, error) {
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

func (r *stubDraftRepo) GenerateDraftNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("RD-2026-%05d", r.seq), nil
}

type stubUserRepo struct {
	users []*identity.User
}

func (r *stubUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "User not found")
}

func (r *stubUserRepo) FindByRole(_ context.Context, role string) ([]identity.User, error) {
	var out []identity.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

type stubNotifyRepo struct {
	saved []*notify.Notification
}

func (r *stubNotifyRepo) Save(_ context.Context, notification *notify.Notification) error {
	r.saved = append(r.saved, notification)
	return nil
}

func (r *stubNotifyRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]notify.Notification, error) {
	var out []notify.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

type stubAuditRepo struct {
	saved []*audit.AuditLog
}

func (r *stubAuditRepo) Save(_ context.Context, log *audit.AuditLog) error {
	r.saved = append(r.saved, log)
	return nil
}

func (r *stubAuditRepo) FindByDraftID(_ context.Context, draftID uuid.UUID) ([]audit.AuditLog, error) {
	var out []audit.AuditLog
	for _, log := range r.saved {
		if log.DraftID == draftID {
			out = append(out, *log)
		}
	}
	return out, nil
}

type stubRequisitionRepo struct {
	saved map[uuid.UUID]*requisition.Requisition
	seq   int
}

func newStubRequisitionRepo() *stubRequisitionRepo {
	return &stubRequisitionRepo{saved: make(map[uuid.UUID]*requisition.Requisition)}
}

func (r *stubRequisitionRepo) Save(_ context.Context, req *requisition.Requisition) error {
	r.saved[req.ID] = req
	return nil
}

func (r *stubRequisitionRepo) FindByID(_ context.Context, id uuid.UUID) (*requisition.Requisition, error) {
	req, ok := r.saved[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Requisition not found")
	}
	return req, nil
}

func (r *stubRequisitionRepo) FindByNumber(_ context.Context, number string) (*requisition.Requisition, error) {
	for _, req := range r.saved {
		if req.Number == number {
			return req, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Requisition not found")
}

func (r *stubRequisitionRepo) GenerateNumber(_ context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("PR-2026-%05d", r.seq), nil
}

type stubTxManager struct{}

func (stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
