package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/schoolhub/backend/internal/domain/assessment"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// GormReportCardRepository implements assessment.ReportCardRepository using
// GORM. Subject entries are replaced wholesale on save; the aggregate owns
// them and edits happen in memory.
type GormReportCardRepository struct {
	db *gorm.DB
}

// NewGormReportCardRepository creates a new GormReportCardRepository
func NewGormReportCardRepository(db *gorm.DB) *GormReportCardRepository {
	return &GormReportCardRepository{db: db}
}

// FindByID finds a report card with its subject entries
func (r *GormReportCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.ReportCard, error) {
	var card assessment.ReportCard
	if err := tenantScoped(ctx, r.db).Preload("Subjects").
		First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

// FindByStudent lists a student's report cards, newest first
func (r *GormReportCardRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]assessment.ReportCard, error) {
	var cards []assessment.ReportCard
	if err := dbFromContext(ctx, r.db).Preload("Subjects").
		Where("student_id = ?", studentID).
		Order("academic_year DESC, term DESC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByClassAndTerm lists the class's report cards for a term
func (r *GormReportCardRepository) FindByClassAndTerm(ctx context.Context, classID uuid.UUID, term, academicYear string, filter shared.Filter) (*shared.Paginated[assessment.ReportCard], error) {
	filter = filter.Normalize()
	query := dbFromContext(ctx, r.db).Model(&assessment.ReportCard{}).
		Where("class_id = ? AND term = ? AND academic_year = ?", classID, term, academicYear)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	var cards []assessment.ReportCard
	if err := query.Preload("Subjects").
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&cards).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(cards, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ExistsForTerm reports whether the student already has a card for the term
func (r *GormReportCardRepository) ExistsForTerm(ctx context.Context, studentID uuid.UUID, term, academicYear string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).Model(&assessment.ReportCard{}).
		Where("student_id = ? AND term = ? AND academic_year = ?", studentID, term, academicYear).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save writes the card and replaces its subject entries
func (r *GormReportCardRepository) Save(ctx context.Context, card *assessment.ReportCard) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Omit("Subjects").Save(card).Error; err != nil {
		return err
	}
	if err := db.Delete(&assessment.SubjectReport{}, "report_card_id = ?", card.ID).Error; err != nil {
		return err
	}
	if len(card.Subjects) == 0 {
		return nil
	}
	return db.Create(&card.Subjects).Error
}

// Delete removes a report card and its subject entries
func (r *GormReportCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Delete(&assessment.SubjectReport{}, "report_card_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&assessment.ReportCard{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ assessment.ReportCardRepository = (*GormReportCardRepository)(nil)
