package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/reorder/internal/domain/requisition"
	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRequisitionRepository implements requisition.Repository using GORM
type GormRequisitionRepository struct {
	db *gorm.DB
}

// NewGormRequisitionRepository creates a new GormRequisitionRepository
func NewGormRequisitionRepository(db *gorm.DB) *GormRequisitionRepository {
	return &GormRequisitionRepository{db: db}
}

// Save persists a requisition with its lines
func (r *GormRequisitionRepository) Save(ctx context.Context, req *requisition.Requisition) error {
	return session(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(req).Error
}

// FindByID finds a requisition by its ID
func (r *GormRequisitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*requisition.Requisition, error) {
	var req requisition.Requisition
	if err := session(ctx, r.db).
		Preload("Lines").
		First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByNumber finds a requisition by its number
func (r *GormRequisitionRepository) FindByNumber(ctx context.Context, number string) (*requisition.Requisition, error) {
	var req requisition.Requisition
	if err := session(ctx, r.db).
		Preload("Lines").
		First(&req, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// GenerateNumber generates a unique requisition number
func (r *GormRequisitionRepository) GenerateNumber(ctx context.Context) (string, error) {
	// Format: PR-YYYY-XXXXX
	prefix := fmt.Sprintf("PR-%d-", time.Now().Year())

	var maxNumber string
	if err := session(ctx, r.db).
		Model(&requisition.Requisition{}).
		Select("number").
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &maxNumber).Error; err != nil {
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
