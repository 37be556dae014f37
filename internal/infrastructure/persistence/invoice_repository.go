package persistence

import (
	"context"
	"errors"

	"github.com/condoledger/backend/internal/domain/billing"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *Database) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db.DB}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUnit finds the unit's invoices with optional filtering
func (r *GormInvoiceRepository) FindByUnit(ctx context.Context, unitID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	query := dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}).
		Where("unit_id = ?", unitID)
	query = applyInvoiceFilter(query, filter)

	var invoiceModels []models.InvoiceModel
	if err := query.Order("period ASC, issue_date ASC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// FindPendingByUnit returns the unit's PENDING invoices ordered by period
func (r *GormInvoiceRepository) FindPendingByUnit(ctx context.Context, unitID uuid.UUID) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).
		Where("unit_id = ? AND status = ?", unitID, billing.InvoiceStatusPending).
		Order("period ASC, issue_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, nil
}

// ListReceiptNumbers returns every non-empty receipt number on invoices
// belonging to the building's units
func (r *GormInvoiceRepository) ListReceiptNumbers(ctx context.Context, buildingID uuid.UUID) ([]string, error) {
	var numbers []string
	err := dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}).
		Joins("JOIN units ON units.id = invoices.unit_id").
		Where("units.building_id = ? AND invoices.receipt_number <> ''", buildingID).
		Pluck("invoices.receipt_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// Save persists an invoice, creating or updating as needed
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return dbFromContext(ctx, r.db).Save(model).Error
}

// CreateBatch inserts a set of invoices in one statement
func (r *GormInvoiceRepository) CreateBatch(ctx context.Context, invoices []*billing.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	invoiceModels := make([]*models.InvoiceModel, len(invoices))
	for i, inv := range invoices {
		invoiceModels[i] = models.InvoiceModelFromDomain(inv)
	}
	return dbFromContext(ctx, r.db).Create(&invoiceModels).Error
}

func applyInvoiceFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}
	return query
}
