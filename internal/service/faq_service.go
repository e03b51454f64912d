package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ojusave/murder-mystery-sub000/internal/domain"
	"github.com/ojusave/murder-mystery-sub000/internal/repository"
)

// FAQService owns the question list shown on the public site. It shares the
// store with the lifecycle core but never touches guests or email.
type FAQService interface {
	Create(ctx context.Context, req *domain.FAQCreateReq) (*domain.FAQ, error)
	ListActive(ctx context.Context) ([]domain.FAQ, error)
	ListAll(ctx context.Context) ([]domain.FAQ, error)
	Update(ctx context.Context, id int64, patch domain.FAQPatch) (*domain.FAQ, error)
	Delete(ctx context.Context, id int64) error
}

type faqService struct {
	faqs     repository.FAQRepository
	validate *validator.Validate
}

func NewFAQService(faqs repository.FAQRepository) FAQService {
	return &faqService{faqs: faqs, validate: validator.New()}
}

func (s *faqService) Create(ctx context.Context, req *domain.FAQCreateReq) (*domain.FAQ, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.Validationf("invalid faq: %v", err)
	}
	return s.faqs.Create(ctx, req)
}

func (s *faqService) ListActive(ctx context.Context) ([]domain.FAQ, error) {
	return s.faqs.ListActive(ctx)
}

func (s *faqService) ListAll(ctx context.Context) ([]domain.FAQ, error) {
	return s.faqs.ListAll(ctx)
}

func (s *faqService) Update(ctx context.Context, id int64, patch domain.FAQPatch) (*domain.FAQ, error) {
	if err := s.validate.Struct(&patch); err != nil {
		return nil, domain.Validationf("invalid update: %v", err)
	}

	faq, err := s.faqs.UpdatePatch(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update faq: %w", err)
	}
	if faq == nil {
		return nil, domain.ErrNotFound
	}
	return faq, nil
}

func (s *faqService) Delete(ctx context.Context, id int64) error {
	ok, err := s.faqs.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
