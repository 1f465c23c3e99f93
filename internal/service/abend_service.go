package service

import (
	"context"
	"fmt"

	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/mapper"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/internal/repository/specification"
	"abend-assist-be/internal/repository/unitofwork"
	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/events"
)

type IAbendService interface {
	// Refresh reloads the engine from the abend_records table.
	Refresh(ctx context.Context) (*dto.RefreshAbendsResponse, error)
	Common(ctx context.Context) []*dto.AbendRecordResponse
	Search(ctx context.Context, query string, limit int) []*dto.AbendRecordResponse
	// Status describes the active record set.
	Status(ctx context.Context) *dto.RefreshAbendsResponse
	// Import replaces the table with records after validating them.
	Import(ctx context.Context, records []abend.Record) (int, error)
}

const maxSearchResults = 20

type abendService struct {
	uowFactory  unitofwork.RepositoryFactory
	engine      ChatEngine
	events      EventPublisher
	logger      logger.ILogger
	mapper      *mapper.AbendRecordMapper
	commonCodes []string
}

func NewAbendService(
	uowFactory unitofwork.RepositoryFactory,
	engine ChatEngine,
	events EventPublisher,
	log logger.ILogger,
	commonCodes []string,
) IAbendService {
	return &abendService{
		uowFactory:  uowFactory,
		engine:      engine,
		events:      events,
		logger:      log,
		mapper:      mapper.NewAbendRecordMapper(),
		commonCodes: commonCodes,
	}
}

func (s *abendService) Refresh(ctx context.Context) (*dto.RefreshAbendsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AbendRecordRepository().FindAll(ctx, specification.OrderBy{Field: "code"})
	if err != nil {
		return nil, fmt.Errorf("load abend records: %w", err)
	}

	records := s.mapper.ToRecords(rows)
	if err := s.engine.Reload(records); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.AbendDataReloaded(len(records))); err != nil {
			s.logger.Warn("Abend", "Failed to publish reload event", map[string]interface{}{"error": err})
		}
	}

	return &dto.RefreshAbendsResponse{
		Count:    len(records),
		LoadedAt: s.engine.LoadedAt(),
	}, nil
}

func (s *abendService) Status(context.Context) *dto.RefreshAbendsResponse {
	return &dto.RefreshAbendsResponse{
		Count:    s.engine.Records().Len(),
		LoadedAt: s.engine.LoadedAt(),
	}
}

func (s *abendService) Common(ctx context.Context) []*dto.AbendRecordResponse {
	idx := s.engine.Records()
	res := make([]*dto.AbendRecordResponse, 0, len(s.commonCodes))
	for _, code := range s.commonCodes {
		rec, ok := idx.LookupByCode(code)
		if !ok {
			continue
		}
		res = append(res, &dto.AbendRecordResponse{
			Code:     rec.Code,
			Name:     rec.Name,
			Solution: rec.Solution,
		})
	}
	return res
}

func (s *abendService) Search(ctx context.Context, query string, limit int) []*dto.AbendRecordResponse {
	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}
	found := s.engine.Records().Search(query, limit)
	res := make([]*dto.AbendRecordResponse, 0, len(found))
	for _, rec := range found {
		res = append(res, &dto.AbendRecordResponse{Code: rec.Code, Name: rec.Name, Solution: rec.Solution})
	}
	return res
}

func (s *abendService) Import(ctx context.Context, records []abend.Record) (int, error) {
	if _, err := abend.NewIndex(records); err != nil {
		return 0, err
	}

	rows := make([]*entity.AbendRecord, len(records))
	for i, r := range records {
		rows[i] = &entity.AbendRecord{Code: r.Code, Name: r.Name, Solution: r.Solution}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	if err := uow.AbendRecordRepository().ReplaceAll(ctx, rows); err != nil {
		_ = uow.Rollback()
		return 0, fmt.Errorf("replace abend records: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("commit abend records: %w", err)
	}

	s.logger.Info("Abend", "Imported abend records", map[string]interface{}{"count": len(records)})
	return len(records), nil
}
