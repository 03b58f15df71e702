package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/clock"
	patientdomain "github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/internal/patient/domain"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/db/option"
	"github.com/cchxrxb9hh-dotcom/dentacloud-pro-sub001/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  repository.Repository[patientdomain.Patient]
}

func NewService(p ServiceParam) patientdomain.Service {
	return &Service{
		log:   p.Log.Named("patient.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.ProvideStore[patientdomain.Patient](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req patientdomain.CreatePatientRequest) (patientdomain.Patient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return patientdomain.Patient{}, patientdomain.ErrInvalidName
	}

	now := s.clock.Now()
	patient := patientdomain.Patient{
		ID:        s.genID.Generate(),
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		BranchID:  strings.TrimSpace(req.BranchID),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, &patient); err != nil {
		return patientdomain.Patient{}, err
	}
	return patient, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (patientdomain.Patient, error) {
	item, err := s.repo.FindOne(ctx, &patientdomain.Patient{ID: id})
	if err != nil {
		return patientdomain.Patient{}, err
	}
	if item == nil {
		return patientdomain.Patient{}, patientdomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]patientdomain.Patient, error) {
	items, err := s.repo.Find(ctx, &patientdomain.Patient{}, option.OrderAsc("name"))
	if err != nil {
		return nil, err
	}

	patients := make([]patientdomain.Patient, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		patients = append(patients, *item)
	}
	return patients, nil
}
