package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boutique/internal/dto"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ── Blog ──────────────────────────────────────────────────────────────────────

type BlogService interface {
	Create(ctx context.Context, req dto.BlogRequest) (*dto.BlogResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.BlogRequest) (*dto.BlogResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.BlogResponse, error)
	// GetBySlug serves the storefront: unpublished posts are not found.
	GetBySlug(ctx context.Context, slug string) (*dto.BlogResponse, error)
	List(ctx context.Context, publishedOnly bool) ([]dto.BlogResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type blogService struct {
	repo  repository.BlogRepository
	files FileRemover
}

func NewBlogService(repo repository.BlogRepository, files FileRemover) BlogService {
	return &blogService{repo: repo, files: files}
}

func (s *blogService) Create(ctx context.Context, req dto.BlogRequest) (*dto.BlogResponse, error) {
	slug, err := uniqueSlug(ctx, req.Title, uuid.Nil, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	b := &model.Blog{
		Title:     strings.TrimSpace(req.Title),
		Slug:      slug,
		Content:   req.Content,
		Image:     req.Image,
		Published: req.Published != nil && *req.Published,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return blogToResponse(b), nil
}

func (s *blogService) Update(ctx context.Context, id uuid.UUID, req dto.BlogRequest) (*dto.BlogResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "article %s introuvable", id)
	}
	if title := strings.TrimSpace(req.Title); title != b.Title {
		b.Title = title
		if b.Slug, err = uniqueSlug(ctx, title, b.ID, s.repo.SlugExists); err != nil {
			return nil, err
		}
	}
	var dropped []string
	if req.Image != nil && b.Image != nil && *b.Image != *req.Image {
		dropped = append(dropped, *b.Image)
	}
	b.Content = req.Content
	if req.Image != nil {
		b.Image = req.Image
	}
	if req.Published != nil {
		b.Published = *req.Published
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	removeFiles(s.files, dropped)
	return blogToResponse(b), nil
}

func (s *blogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.BlogResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "article %s introuvable", id)
	}
	return blogToResponse(b), nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*dto.BlogResponse, error) {
	b, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "article %q introuvable", slug)
	}
	if !b.Published {
		return nil, fmt.Errorf("article %q introuvable: %w", slug, ErrNotFound)
	}
	return blogToResponse(b), nil
}

func (s *blogService) List(ctx context.Context, publishedOnly bool) ([]dto.BlogResponse, error) {
	blogs, err := s.repo.List(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BlogResponse, len(blogs))
	for i := range blogs {
		out[i] = *blogToResponse(&blogs[i])
	}
	return out, nil
}

func (s *blogService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("article %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

func (s *blogService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucun article à supprimer")
	}
	var images []string
	for _, id := range ids {
		if b, err := s.repo.FindByID(ctx, id); err == nil && b.Image != nil {
			images = append(images, *b.Image)
		}
	}
	n, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	removeFiles(s.files, images)
	return n, nil
}

func blogToResponse(b *model.Blog) *dto.BlogResponse {
	return &dto.BlogResponse{
		ID: b.ID.String(), Title: b.Title, Slug: b.Slug, Content: b.Content,
		Image: b.Image, Published: b.Published, CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// ── Page ──────────────────────────────────────────────────────────────────────

type PageService interface {
	Create(ctx context.Context, req dto.PageRequest) (*dto.StaticPageResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.PageRequest) (*dto.StaticPageResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.StaticPageResponse, error)
	GetBySlug(ctx context.Context, slug string) (*dto.StaticPageResponse, error)
	List(ctx context.Context) ([]dto.StaticPageResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type pageService struct {
	repo repository.PageRepository
}

func NewPageService(repo repository.PageRepository) PageService {
	return &pageService{repo: repo}
}

func (s *pageService) Create(ctx context.Context, req dto.PageRequest) (*dto.StaticPageResponse, error) {
	slug, err := uniqueSlug(ctx, req.Title, uuid.Nil, s.repo.SlugExists)
	if err != nil {
		return nil, err
	}
	p := &model.Page{Title: strings.TrimSpace(req.Title), Slug: slug, Content: req.Content}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return pageToResponse(p), nil
}

func (s *pageService) Update(ctx context.Context, id uuid.UUID, req dto.PageRequest) (*dto.StaticPageResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "page %s introuvable", id)
	}
	if title := strings.TrimSpace(req.Title); title != p.Title {
		p.Title = title
		if p.Slug, err = uniqueSlug(ctx, title, p.ID, s.repo.SlugExists); err != nil {
			return nil, err
		}
	}
	p.Content = req.Content
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return pageToResponse(p), nil
}

func (s *pageService) GetByID(ctx context.Context, id uuid.UUID) (*dto.StaticPageResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "page %s introuvable", id)
	}
	return pageToResponse(p), nil
}

func (s *pageService) GetBySlug(ctx context.Context, slug string) (*dto.StaticPageResponse, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "page %q introuvable", slug)
	}
	return pageToResponse(p), nil
}

func (s *pageService) List(ctx context.Context) ([]dto.StaticPageResponse, error) {
	pages, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StaticPageResponse, len(pages))
	for i := range pages {
		out[i] = *pageToResponse(&pages[i])
	}
	return out, nil
}

func (s *pageService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("page %s introuvable: %w", id, ErrNotFound)
	}
	return nil
}

func (s *pageService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, invalid("aucune page à supprimer")
	}
	return s.repo.Delete(ctx, ids)
}

func pageToResponse(p *model.Page) *dto.StaticPageResponse {
	return &dto.StaticPageResponse{
		ID: p.ID.String(), Title: p.Title, Slug: p.Slug, Content: p.Content,
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

// ── Messages ──────────────────────────────────────────────────────────────────

type MessageService interface {
	// Create stores a contact-form message and forwards it to the store mailbox.
	Create(ctx context.Context, req dto.MessageRequest) (*dto.MessageResponse, error)
	List(ctx context.Context, unreadOnly bool) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SendSMS queues a free-form SMS to a customer.
	SendSMS(ctx context.Context, req dto.SendSMSRequest) error
}

type messageService struct {
	repo     repository.MessageRepository
	settings SettingsSource
	notifier Notifier
}

func NewMessageService(repo repository.MessageRepository, settings SettingsSource, notifier Notifier) MessageService {
	return &messageService{repo: repo, settings: settings, notifier: notifier}
}

func (s *messageService) Create(ctx context.Context, req dto.MessageRequest) (*dto.MessageResponse, error) {
	m := &model.Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   req.Phone,
		Subject: strings.TrimSpace(req.Subject),
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.forward(context.WithoutCancel(ctx), m)
	return messageToResponse(m), nil
}

func (s *messageService) forward(ctx context.Context, m *model.Message) {
	if s.notifier == nil || s.settings == nil {
		return
	}
	info, err := s.settings.Settings(ctx)
	if err != nil || info.Email == nil || *info.Email == "" {
		return
	}
	subject := fmt.Sprintf("[Contact] %s", m.Subject)
	body := fmt.Sprintf("De: %s <%s>\nTéléphone: %s\n\n%s", m.Name, m.Email, derefString(m.Phone), m.Content)
	if err := s.notifier.QueueEmail(ctx, nil, *info.Email, subject, body, false); err != nil {
		log.Warn().Err(err).Str("message_id", m.ID.String()).Msg("message: forward not queued")
	}
}

func (s *messageService) List(ctx context.Context, unreadOnly bool) ([]dto.MessageResponse, error) {
	msgs, err := s.repo.List(ctx, unreadOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MessageResponse, len(msgs))
	for i := range msgs {
		out[i] = *messageToResponse(&msgs[i])
	}
	return out, nil
}

func (s *messageService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.MarkRead(ctx, id), "message %s introuvable", id)
}

func (s *messageService) Delete(ctx context.Context, id uuid.UUID) error {
	return notFound(s.repo.Delete(ctx, id), "message %s introuvable", id)
}

func (s *messageService) SendSMS(ctx context.Context, req dto.SendSMSRequest) error {
	if s.notifier == nil {
		return fmt.Errorf("envoi de SMS indisponible")
	}
	return s.notifier.QueueSMS(ctx, nil, strings.TrimSpace(req.Phone), req.Text)
}

func messageToResponse(m *model.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID: m.ID.String(), Name: m.Name, Email: m.Email, Phone: m.Phone,
		Subject: m.Subject, Content: m.Content, Read: m.Read,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
