package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/reorder/internal/domain/reorder"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDraftRepository implements DraftRepository using GORM
type GormDraftRepository struct {
	db *gorm.DB
}

// NewGormDraftRepository creates a new GormDraftRepository
func NewGormDraftRepository(db *gorm.DB) *GormDraftRepository {
	return &GormDraftRepository{db: db}
}

// Save persists a draft with its snapshot lines. Lines are immutable
// after creation so upserting the full set is safe.
func (r *GormDraftRepository) Save(ctx context.Context, draft *reorder.DraftPurchaseRequest) error {
	return session(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(draft).Error
}

// FindByID finds a draft by its ID, lines included
func (r *GormDraftRepository) FindByID(ctx context.Context, id uuid.UUID) (*reorder.DraftPurchaseRequest, error) {
	var draft reorder.DraftPurchaseRequest
	if err := session(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("included DESC, position ASC")
		}).
		First(&draft, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// FindByNumber finds a draft by its draft number, lines included
func (r *GormDraftRepository) FindByNumber(ctx context.Context, draftNumber string) (*reorder.DraftPurchaseRequest, error) {
	var draft reorder.DraftPurchaseRequest
	if err := session(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("included DESC, position ASC")
		}).
		First(&draft, "draft_number = ?", draftNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// FindAll finds drafts matching the filter plus the unpaginated count,
// newest first
func (r *GormDraftRepository) FindAll(ctx context.Context, filter reorder.DraftFilter) ([]reorder.DraftPurchaseRequest, int64, error) {
	query := session(ctx, r.db).Model(&reorder.DraftPurchaseRequest{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var drafts []reorder.DraftPurchaseRequest
	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("included DESC, position ASC")
		}).
		Order("created_at DESC").
		Find(&drafts).Error; err != nil {
		return nil, 0, err
	}
	return drafts, total, nil
}

// GenerateDraftNumber generates a unique draft number
func (r *GormDraftRepository) GenerateDraftNumber(ctx context.Context) (string, error) {
	// Format: RD-YYYY-XXXXX
	prefix := fmt.Sprintf("RD-%d-", time.Now().Year())

	var maxNumber string
	if err := session(ctx, r.db).
		Model(&reorder.DraftPurchaseRequest{}).
		Select("draft_number").
		Where("draft_number LIKE ?", prefix+"%").
		Order("draft_number DESC").
		Limit(1).
		Pluck("draft_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}
