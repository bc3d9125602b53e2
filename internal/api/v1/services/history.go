package services

import (
	"context"
	stderrors "errors"
	"strings"

	"voxscribe/internal/api/errors"
	"voxscribe/internal/api/v1/dto"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/repository"
	"voxscribe/internal/app/session"
)

// HistoryServiceImpl implements the HistoryService interface
type HistoryServiceImpl struct {
	store repository.HistoryStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store repository.HistoryStore) *HistoryServiceImpl {
	return &HistoryServiceImpl{store: store}
}

func userOf(ctx context.Context) (string, error) {
	s := session.FromContext(ctx)
	if !s.Authenticated() {
		return "", errors.NewUnauthorizedError("Usuário não autenticado")
	}
	return s.UserID, nil
}

// storeError maps repository errors onto API errors.
func storeError(err error, resource, message string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError(resource)
	}
	return errors.WrapError(err, errors.KindInternal, message)
}

// SaveRecord stores a client-built record. Counts are recomputed.
func (s *HistoryServiceImpl) SaveRecord(ctx context.Context, req *dto.SaveHistoryRequest) (*model.TranscriptionRecord, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Save(ctx, userID, req.ToRecord(userID))
	if err != nil {
		return nil, storeError(err, "Transcription", "Failed to save transcription")
	}
	return rec, nil
}

// ListRecords returns one page, newest first.
func (s *HistoryServiceImpl) ListRecords(ctx context.Context, query dto.ListHistoryQuery) (*dto.HistoryListResponse, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	limit, offset := repository.NormalizePage(query.Limit, query.Offset)
	items, total, err := s.store.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, storeError(err, "History", "Failed to list transcriptions")
	}
	if items == nil {
		items = []model.TranscriptionRecord{}
	}
	return &dto.HistoryListResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// GetRecord returns one of the caller's records.
func (s *HistoryServiceImpl) GetRecord(ctx context.Context, id string) (*model.TranscriptionRecord, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, "Transcription", "Failed to load transcription")
	}
	return rec, nil
}

// UpdateText replaces the transcript and recomputes its counts.
func (s *HistoryServiceImpl) UpdateText(ctx context.Context, id, text string) (*model.TranscriptionRecord, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewValidationError("Invalid transcription", map[string]string{
			"transcription": "must not be blank",
		})
	}
	rec, err := s.store.UpdateText(ctx, userID, id, text)
	if err != nil {
		return nil, storeError(err, "Transcription", "Failed to update transcription")
	}
	return rec, nil
}

// DeleteRecord removes one record.
func (s *HistoryServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	userID, err := userOf(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return storeError(err, "Transcription", "Failed to delete transcription")
	}
	return nil
}

// DeleteAll clears the caller's history.
func (s *HistoryServiceImpl) DeleteAll(ctx context.Context) error {
	userID, err := userOf(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAll(ctx, userID); err != nil {
		return storeError(err, "History", "Failed to clear history")
	}
	return nil
}

// Search matches file names and transcripts case-insensitively.
func (s *HistoryServiceImpl) Search(ctx context.Context, term string) (*dto.SearchResponse, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.NewBadRequestError("Termo de busca vazio")
	}
	items, err := s.store.Search(ctx, userID, term)
	if err != nil {
		return nil, storeError(err, "History", "Failed to search transcriptions")
	}
	if items == nil {
		items = []model.TranscriptionRecord{}
	}
	return &dto.SearchResponse{Items: items, Count: len(items)}, nil
}

// Stats aggregates the caller's history.
func (s *HistoryServiceImpl) Stats(ctx context.Context) (*model.UserStats, error) {
	userID, err := userOf(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.Stats(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Stats", "Failed to compute statistics")
	}
	return stats, nil
}
