package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/repos"
	"github.com/sdshc/tracker-backend/internal/types"
)

// ProducerDetail is the display shape for one producer: the producer plus
// everything hanging off their contracts.
type ProducerDetail struct {
	Producer  *types.Producer   `json:"producer"`
	Contracts []*types.Contract `json:"contracts"`
	BMPs      []*types.BMP      `json:"bmps"`
	Practices []*types.Practice `json:"practices"`
}

type ProducerService interface {
	List(ctx context.Context) ([]*types.Producer, error)
	Detail(ctx context.Context, id uint) (*ProducerDetail, error)
}

type producerService struct {
	db           *gorm.DB
	log          *logger.Logger
	producerRepo repos.ProducerRepo
	contractRepo repos.ContractRepo
	bmpRepo      repos.BMPRepo
	practiceRepo repos.PracticeRepo
}

func NewProducerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	producerRepo repos.ProducerRepo,
	contractRepo repos.ContractRepo,
	bmpRepo repos.BMPRepo,
	practiceRepo repos.PracticeRepo,
) ProducerService {
	return &producerService{
		db:           db,
		log:          baseLog.With("service", "ProducerService"),
		producerRepo: producerRepo,
		contractRepo: contractRepo,
		bmpRepo:      bmpRepo,
		practiceRepo: practiceRepo,
	}
}

func (s *producerService) List(ctx context.Context) ([]*types.Producer, error) {
	return s.producerRepo.GetAll(ctx, nil)
}

func (s *producerService) Detail(ctx context.Context, id uint) (*ProducerDetail, error) {
	producer, err := s.producerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load producer: %w", err)
	}
	contracts, err := s.contractRepo.GetByProducerIDs(ctx, nil, []uint{producer.ID})
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	contractIDs := make([]uint, 0, len(contracts))
	for _, c := range contracts {
		contractIDs = append(contractIDs, c.ID)
	}
	bmps, err := s.bmpRepo.GetByContractIDs(ctx, nil, contractIDs)
	if err != nil {
		return nil, fmt.Errorf("load bmps: %w", err)
	}
	bmpIDs := make([]uint, 0, len(bmps))
	for _, b := range bmps {
		bmpIDs = append(bmpIDs, b.ID)
	}
	practices, err := s.practiceRepo.GetByBMPIDs(ctx, nil, bmpIDs)
	if err != nil {
		return nil, fmt.Errorf("load practices: %w", err)
	}
	return &ProducerDetail{
		Producer:  producer,
		Contracts: contracts,
		BMPs:      bmps,
		Practices: practices,
	}, nil
}
