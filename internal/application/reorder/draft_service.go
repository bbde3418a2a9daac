package reorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/reorder/internal/domain/inventory"
	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/requisition"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftOptions carries fulfillment defaults resolved from configuration
type DraftOptions struct {
	DefaultLocation string
	BatchExpiry     time.Duration
}

// DraftService drives a persisted draft through its approval lifecycle
// and the two terminal paths: conversion into a requisition, or direct
// stock fulfillment.
type DraftService struct {
	drafts       reorder.DraftRepository
	items        inventory.InventoryItemRepository
	stockRecords inventory.StockRecordRepository
	requisitions requisition.Repository
	tx           shared.TransactionManager
	policy       *reorder.RolePolicy
	opts         DraftOptions
	logger       *zap.Logger
}

// NewDraftService creates a new DraftService
func NewDraftService(
	drafts reorder.DraftRepository,
	items inventory.InventoryItemRepository,
	stockRecords inventory.StockRecordRepository,
	requisitions requisition.Repository,
	tx shared.TransactionManager,
	policy *reorder.RolePolicy,
	opts DraftOptions,
	logger *zap.Logger,
) *DraftService {
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = "MAIN"
	}
	if opts.BatchExpiry == 0 {
		opts.BatchExpiry = 365 * 24 * time.Hour
	}
	return &DraftService{
		drafts:       drafts,
		items:        items,
		stockRecords: stockRecords,
		requisitions: requisitions,
		tx:           tx,
		policy:       policy,
		opts:         opts,
		logger:       logger,
	}
}

// List returns drafts matching the filter plus the total count
func (s *DraftService) List(ctx context.Context, filter reorder.DraftFilter) ([]DraftResponse, int64, error) {
	drafts, total, err := s.drafts.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DraftResponse, 0, len(drafts))
	for i := range drafts {
		responses = append(responses, ToDraftResponse(&drafts[i]))
	}
	return responses, total, nil
}

// Get returns one draft by ID
func (s *DraftService) Get(ctx context.Context, id uuid.UUID) (*DraftResponse, error) {
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDraftResponse(draft)
	return &response, nil
}

// Approve transitions a pending draft to approved on behalf of the actor
func (s *DraftService) Approve(ctx context.Context, id uuid.UUID, actor, actorRole string) (*DraftResponse, error) {
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := draft.Approve(actor, actorRole, s.policy); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("draft approved",
		zap.String("draft_number", draft.DraftNumber),
		zap.String("approved_by", actor),
	)
	response := ToDraftResponse(draft)
	return &response, nil
}

// Reject transitions a pending draft to rejected with a reason
func (s *DraftService) Reject(ctx context.Context, id uuid.UUID, actor, actorRole, reason string) (*DraftResponse, error) {
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := draft.Reject(actor, actorRole, reason, s.policy); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("draft rejected",
		zap.String("draft_number", draft.DraftNumber),
		zap.String("rejected_by", actor),
		zap.String("reason", reason),
	)
	response := ToDraftResponse(draft)
	return &response, nil
}

// Convert turns an approved draft into a submitted requisition. Each
// within-budget line resolves the live inventory item by code and emits
// a requisition line at the snapshot quantity and rate. The requisition
// and the draft transition commit as one transaction.
func (s *DraftService) Convert(ctx context.Context, id uuid.UUID) (*DraftResponse, error) {
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != reorder.DraftStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf(
			"Cannot convert draft %s: status is %s, expected %s",
			draft.DraftNumber, draft.Status, reorder.DraftStatusApproved))
	}

	var number string
	var lines int
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		generated, err := s.requisitions.GenerateNumber(ctx)
		if err != nil {
			return err
		}
		number = generated

		req, err := requisition.NewRequisition(number, draft.ID, draft.DraftNumber)
		if err != nil {
			return err
		}

		for _, line := range draft.WithinBudgetLines() {
			if line.RecommendedOrderQty == 0 {
				continue
			}
			item, err := s.items.FindByCode(ctx, line.ItemCode)
			if err != nil {
				return err
			}
			remark := fmt.Sprintf("Urgency %.2f; source draft %s", line.UrgencyScore, draft.DraftNumber)
			if err := req.AddLine(item.ID, item.ItemCode, item.Name, item.Unit,
				line.RecommendedOrderQty, line.UnitCost, remark); err != nil {
				return err
			}
		}

		if err := draft.MarkConverted(number); err != nil {
			return err
		}
		if err := s.requisitions.Save(ctx, req); err != nil {
			return err
		}
		lines = len(req.Lines)
		return s.drafts.Save(ctx, draft)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft converted to requisition",
		zap.String("draft_number", draft.DraftNumber),
		zap.String("requisition_number", number),
		zap.Int("lines", lines),
	)
	response := ToDraftResponse(draft)
	return &response, nil
}

// Fulfill restocks every within-budget line directly: finds or creates a
// stock record at the default location, stamps a synthetic batch derived
// from the draft number with a fixed expiry, and increments the item's
// running total. Allowed from pending_approval or approved. The stock
// writes and the draft transition commit as one transaction.
func (s *DraftService) Fulfill(ctx context.Context, id uuid.UUID) (*DraftResponse, error) {
	draft, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := draft.MarkFulfilled(); err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.opts.BatchExpiry)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, line := range draft.WithinBudgetLines() {
			if line.RecommendedOrderQty == 0 {
				continue
			}
			if err := s.fulfillLine(ctx, draft.DraftNumber, line, expiry); err != nil {
				return err
			}
		}
		return s.drafts.Save(ctx, draft)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft fulfilled directly",
		zap.String("draft_number", draft.DraftNumber),
		zap.Int("lines", draft.ItemsIncluded),
		zap.String("location", s.opts.DefaultLocation),
	)
	response := ToDraftResponse(draft)
	return &response, nil
}

func (s *DraftService) fulfillLine(ctx context.Context, draftNumber string, line reorder.DraftLine, expiry time.Time) error {
	record, err := s.stockRecords.FindByItemAndLocation(ctx, line.ItemID, s.opts.DefaultLocation)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
			return err
		}
		record, err = inventory.NewStockRecord(line.ItemID, s.opts.DefaultLocation, 0)
		if err != nil {
			return err
		}
	}

	if err := record.AddQuantity(line.RecommendedOrderQty); err != nil {
		return err
	}
	record.SetBatch(fmt.Sprintf("%s-%s", draftNumber, line.ItemCode), &expiry)
	if err := s.stockRecords.Save(ctx, record); err != nil {
		return err
	}

	item, err := s.items.FindByID(ctx, line.ItemID)
	if err != nil {
		return err
	}
	if err := item.AddToTotal(line.RecommendedOrderQty); err != nil {
		return err
	}
	return s.items.Save(ctx, item)
}
