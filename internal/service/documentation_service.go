package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

var dataURIPrefix = regexp.MustCompile(`^data:[\w.+-]+/[\w.+-]+;base64,`)

type documentationRepository interface {
	List(ctx context.Context) ([]models.Documentation, error)
	ListByWriter(ctx context.Context, email string) ([]models.Documentation, error)
	FindByID(ctx context.Context, id string) (*models.Documentation, error)
	ListDetails(ctx context.Context, documentationIDs []string) ([]models.DiscussionDetail, error)
	CreateWithDetails(ctx context.Context, doc *models.Documentation, details []models.DiscussionDetail) error
	UpdateWithDetails(ctx context.Context, doc *models.Documentation, details []models.DiscussionDetail) error
	Delete(ctx context.Context, id string) error
}

// DocumentationService manages meeting documentation and its discussion details.
type DocumentationService struct {
	repo      documentationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentationService constructs the service.
func NewDocumentationService(repo documentationRepository, validate *validator.Validate, logger *zap.Logger) *DocumentationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentationService{repo: repo, validator: validate, logger: logger}
}

// GetAll lists every documentation entry with its details.
func (s *DocumentationService) GetAll(ctx context.Context) ([]models.DocumentationWithDetails, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list documentation")
	}
	return s.attachDetails(ctx, docs)
}

// GetByEmail lists the documentation written by email.
func (s *DocumentationService) GetByEmail(ctx context.Context, email string) ([]models.DocumentationWithDetails, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, appErrors.Validation("email is required")
	}
	docs, err := s.repo.ListByWriter(ctx, email)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list documentation")
	}
	if len(docs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no documentation found for this email")
	}
	return s.attachDetails(ctx, docs)
}

// CreateWithDetails stores a documentation entry and its details atomically.
// writer is the email of the authenticated user.
func (s *DocumentationService) CreateWithDetails(ctx context.Context, writer string, req dto.DocumentationRequest) (*models.DocumentationWithDetails, error) {
	doc, details, err := s.build(writer, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateWithDetails(ctx, doc, details); err != nil {
		return nil, appErrors.Internal(err, "failed to create documentation")
	}
	return &models.DocumentationWithDetails{Documentation: *doc, DiscussionDetails: details}, nil
}

// UpdateWithDetails replaces a documentation entry and all of its details.
// The stored writer and timestamp are kept.
func (s *DocumentationService) UpdateWithDetails(ctx context.Context, id, writer string, req dto.DocumentationRequest) (*models.DocumentationWithDetails, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Validation("documentation id is required")
	}
	doc, details, err := s.build(writer, req)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "documentation not found")
		}
		return nil, appErrors.Internal(err, "failed to load documentation")
	}
	doc.ID = id
	doc.Writer = existing.Writer
	doc.Timestamp = existing.Timestamp
	if err := s.repo.UpdateWithDetails(ctx, doc, details); err != nil {
		if isMissing(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "documentation not found")
		}
		return nil, appErrors.Internal(err, "failed to update documentation")
	}
	return &models.DocumentationWithDetails{Documentation: *doc, DiscussionDetails: details}, nil
}

// Delete removes a documentation entry with its details.
func (s *DocumentationService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Validation("documentation id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if isMissing(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "documentation not found")
		}
		return appErrors.Internal(err, "failed to delete documentation")
	}
	return nil
}

func (s *DocumentationService) build(writer string, req dto.DocumentationRequest) (*models.Documentation, []models.DiscussionDetail, error) {
	writer = strings.TrimSpace(writer)
	if writer == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "an authenticated user with an email is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, time and a valid type are required")
	}
	at, err := parseTimestamp(req.Time)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time")
	}
	if err := validatePictures(req.Pictures); err != nil {
		return nil, nil, err
	}

	doc := &models.Documentation{
		Title:          strings.TrimSpace(req.Title),
		NomorUndangan:  req.NomorUndangan,
		Description:    req.Description,
		Leader:         req.Leader,
		Place:          req.Place,
		Time:           at,
		Timestamp:      time.Now().UTC(),
		AttendanceList: nonNilStrings(req.AttendanceList),
		Results:        nonNilStrings(req.Results),
		Pictures:       nonNilStrings(req.Pictures),
		Type:           models.DocumentationType(req.Type),
		Writer:         writer,
	}

	details := make([]models.DiscussionDetail, 0, len(req.DiscussionDetails))
	for i, d := range req.DiscussionDetails {
		detail := models.DiscussionDetail{
			DiscussionTitle:   strings.TrimSpace(d.DiscussionTitle),
			PersonResponsible: d.PersonResponsible,
			FurtherActions:    d.FurtherActions,
		}
		if strings.TrimSpace(d.Deadline) != "" {
			deadline, err := parseTimestamp(d.Deadline)
			if err != nil {
				return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid deadline in discussion detail %d", i+1))
			}
			detail.Deadline = &deadline
		}
		details = append(details, detail)
	}
	return doc, details, nil
}

func (s *DocumentationService) attachDetails(ctx context.Context, docs []models.Documentation) ([]models.DocumentationWithDetails, error) {
	out := make([]models.DocumentationWithDetails, 0, len(docs))
	if len(docs) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	details, err := s.repo.ListDetails(ctx, ids)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list discussion details")
	}
	byDoc := make(map[string][]models.DiscussionDetail, len(docs))
	for _, d := range details {
		byDoc[d.DocumentationID] = append(byDoc[d.DocumentationID], d)
	}
	for _, d := range docs {
		items := byDoc[d.ID]
		if items == nil {
			items = []models.DiscussionDetail{}
		}
		out = append(out, models.DocumentationWithDetails{Documentation: d, DiscussionDetails: items})
	}
	return out, nil
}

// validatePictures accepts http(s) URLs and base64 images, optionally
// prefixed with a data URI header.
func validatePictures(pictures []string) error {
	for i, p := range pictures {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			continue
		}
		payload := dataURIPrefix.ReplaceAllString(p, "")
		if payload == "" {
			return appErrors.Validation(fmt.Sprintf("picture %d has no encoded data", i+1))
		}
		if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("picture %d is not valid base64", i+1))
		}
	}
	return nil
}

func nonNilStrings(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}
