package service

import (
	"context"
	"fmt"

	"campus-reserve-backend/internal/domain"
	"campus-reserve-backend/internal/logger"
	"campus-reserve-backend/internal/repository"
)

// resourceService is the entry point the resource-management collaborator
// uses to create and archive bookable resources. It never touches
// reserved_count; that counter belongs to the orchestrator.
type resourceService struct {
	resourceRepo repository.ResourceRepository
}

func NewResourceService(resourceRepo repository.ResourceRepository) ResourceService {
	return &resourceService{resourceRepo: resourceRepo}
}

func (s *resourceService) CreateResource(ctx context.Context, res *domain.CapacityResource) error {
	switch res.Kind {
	case domain.ResourceKindEvent, domain.ResourceKindGymSession, domain.ResourceKindBoothSlot:
	default:
		return fmt.Errorf("unknown resource kind %q", res.Kind)
	}
	if res.TotalCapacity != nil && *res.TotalCapacity < 0 {
		return fmt.Errorf("total capacity must not be negative")
	}
	if res.UnitPriceCents < 0 {
		return fmt.Errorf("unit price must not be negative")
	}

	if err := s.resourceRepo.Create(ctx, res); err != nil {
		return err
	}
	logger.InfoContext(ctx, "resource created", "resource_id", res.ID, "kind", res.Kind)
	return nil
}

func (s *resourceService) GetResource(ctx context.Context, id int64) (*domain.CapacityResource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

func (s *resourceService) ListResources(ctx context.Context, kind string, page, pageSize int32) ([]domain.CapacityResource, int32, error) {
	return s.resourceRepo.List(ctx, kind, page, pageSize)
}

func (s *resourceService) ArchiveResource(ctx context.Context, id int64) error {
	return s.resourceRepo.Archive(ctx, id)
}
