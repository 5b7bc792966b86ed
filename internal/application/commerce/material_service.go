// Package commerce implements the school store: material listings, order
// checkout and payment settlement.
package commerce

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/domain/commerce"
	"github.com/schoolhub/backend/internal/domain/identity"
	"github.com/schoolhub/backend/internal/domain/shared"
	"github.com/schoolhub/backend/internal/infrastructure/storage"
)

// MaterialService manages store listings
type MaterialService struct {
	materialRepo commerce.MaterialRepository
	storage      storage.ObjectStorage
	logger       *zap.Logger
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(materialRepo commerce.MaterialRepository, objectStorage storage.ObjectStorage, logger *zap.Logger) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		storage:      objectStorage,
		logger:       logger,
	}
}

// Create lists a material in the actor's school store
func (s *MaterialService) Create(ctx context.Context, actor identity.Actor, input CreateMaterialInput) (*MaterialResponse, error) {
	material, err := commerce.NewMaterial(actor.SchoolID, input.Name, input.Description,
		input.Price, input.Currency, input.Stock)
	if err != nil {
		return nil, err
	}
	material.CreatedBy = &actor.UserID

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.logger.Info("Material listed",
		zap.String("material_id", material.ID.String()),
		zap.String("price", material.Price.String()),
		zap.Int("stock", material.StockQuantity))

	resp := ToMaterialResponse(material)
	return &resp, nil
}

// Get returns one material
func (s *MaterialService) Get(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// List returns materials matching the filter
func (s *MaterialService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[MaterialResponse], error) {
	page, err := s.materialRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]MaterialResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToMaterialResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update applies listing changes
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.Update(input.Name, input.Description, input.Price); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// Restock adds stock to a material
func (s *MaterialService) Restock(ctx context.Context, id uuid.UUID, input RestockInput) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := material.Restock(input.Quantity); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}

	s.logger.Info("Material restocked",
		zap.String("material_id", material.ID.String()),
		zap.Int("quantity", input.Quantity),
		zap.Int("stock", material.StockQuantity))

	resp := ToMaterialResponse(material)
	return &resp, nil
}

// Unlist hides the material from the store without deleting it, so past
// orders keep their reference.
func (s *MaterialService) Unlist(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	material.Unlist()
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// UploadImage stores the material's image and records its URL
func (s *MaterialService) UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("schools/%s/materials/%s/image", material.SchoolID, material.ID)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	material.SetImageURL(url)
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}
