package service

import (
	"context"
	"time"

	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/internal/repository/specification"
	"abend-assist-be/internal/repository/unitofwork"
)

type IAdminService interface {
	GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
	GetChatTurns(ctx context.Context, sessionId string, page, limit int) (*dto.PagedResponse[*dto.ChatTurnResponse], error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAdminService {
	return &adminService{uowFactory: uowFactory, logger: log}
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level, module string) ([]*dto.LogListResponse, error) {
	page, limit = normalizePage(page, limit)
	logs, err := s.logger.GetLogs(logger.LogFilter{
		Level:  level,
		Module: module,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		ts, _ := time.Parse(time.RFC3339, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	l, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(time.RFC3339, l.Timestamp)
	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}

func (s *adminService) GetChatTurns(ctx context.Context, sessionId string, page, limit int) (*dto.PagedResponse[*dto.ChatTurnResponse], error) {
	page, limit = normalizePage(page, limit)

	var filters []specification.Specification
	if sessionId != "" {
		filters = append(filters, specification.BySessionId{SessionId: sessionId})
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).ChatTurnRepository()
	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	turns, err := repo.FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChatTurnResponse, 0, len(turns))
	for _, t := range turns {
		items = append(items, &dto.ChatTurnResponse{
			Id:         t.Id,
			SessionId:  t.SessionId,
			Utterance:  t.Utterance,
			Reply:      t.Reply,
			Intent:     t.Intent,
			PromptKind: t.PromptKind,
			Outcome:    t.Outcome,
			Code:       t.Entities.Code,
			Name:       t.Entities.Name,
			CreatedAt:  t.CreatedAt,
		})
	}
	return &dto.PagedResponse[*dto.ChatTurnResponse]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
