package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/pkg/cache"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

var (
	companiesKey = cache.Key("reference", "companies")
	majorsKey    = cache.Key("reference", "majors")
	periodsKey   = cache.Key("reference", "periods")
)

type referenceRepository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListMajors(ctx context.Context) ([]models.Major, error)
	CreateMajor(ctx context.Context, major *models.Major) error
	ListPeriods(ctx context.Context) ([]models.Period, error)
	CreatePeriod(ctx context.Context, period *models.Period) error
}

// ReferenceService serves the companies, majors and periods lookups.
type ReferenceService struct {
	repo      referenceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReferenceService constructs the service. cache may be nil.
func NewReferenceService(repo referenceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

func (s *ReferenceService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if s.cache.Get(ctx, companiesKey, &companies) {
		return companies, nil
	}
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list companies")
	}
	if companies == nil {
		companies = []models.Company{}
	}
	s.cache.Set(ctx, companiesKey, companies, 0)
	return companies, nil
}

func (s *ReferenceService) ListMajors(ctx context.Context) ([]models.Major, error) {
	var majors []models.Major
	if s.cache.Get(ctx, majorsKey, &majors) {
		return majors, nil
	}
	majors, err := s.repo.ListMajors(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list majors")
	}
	if majors == nil {
		majors = []models.Major{}
	}
	s.cache.Set(ctx, majorsKey, majors, 0)
	return majors, nil
}

// CreateMajor adds a major and drops the cached list.
func (s *ReferenceService) CreateMajor(ctx context.Context, req dto.NamedEntityRequest) (*models.Major, error) {
	name, err := s.validName(req)
	if err != nil {
		return nil, err
	}
	major := &models.Major{Name: name}
	if err := s.repo.CreateMajor(ctx, major); err != nil {
		return nil, appErrors.Internal(err, "failed to create major")
	}
	s.cache.Delete(ctx, majorsKey)
	return major, nil
}

func (s *ReferenceService) ListPeriods(ctx context.Context) ([]models.Period, error) {
	var periods []models.Period
	if s.cache.Get(ctx, periodsKey, &periods) {
		return periods, nil
	}
	periods, err := s.repo.ListPeriods(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list periods")
	}
	if periods == nil {
		periods = []models.Period{}
	}
	s.cache.Set(ctx, periodsKey, periods, 0)
	return periods, nil
}

// CreatePeriod adds a period and drops the cached list.
func (s *ReferenceService) CreatePeriod(ctx context.Context, req dto.NamedEntityRequest) (*models.Period, error) {
	name, err := s.validName(req)
	if err != nil {
		return nil, err
	}
	period := &models.Period{Name: name}
	if err := s.repo.CreatePeriod(ctx, period); err != nil {
		return nil, appErrors.Internal(err, "failed to create period")
	}
	s.cache.Delete(ctx, periodsKey)
	return period, nil
}

func (s *ReferenceService) validName(req dto.NamedEntityRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name is required")
	}
	return req.Name, nil
}
