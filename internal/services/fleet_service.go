package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ambudispatch/internal/models"
	"ambudispatch/internal/repositories/interfaces"
	"ambudispatch/internal/utils"
	"ambudispatch/pkg/logger"
)

// FleetService owns ambulance selection and reservation. Selection ranks the
// available pool by straight-line distance to the caller; reservation is a
// conditional update so two concurrent dispatches can never win the same unit.
type FleetService interface {
	FindAndAssign(ctx context.Context, lat, lng *float64, trip models.TripRef) (*models.AssignedAmbulance, error)
	Release(ctx context.Context, ambulanceID string) error
	GetAssignmentForTrip(ctx context.Context, tripID string) (*models.Ambulance, error)
}

type fleetService struct {
	ambulanceRepo interfaces.AmbulanceRepository
	logger        *logger.Logger
}

func NewFleetService(ambulanceRepo interfaces.AmbulanceRepository, log *logger.Logger) FleetService {
	return &fleetService{
		ambulanceRepo: ambulanceRepo,
		logger:        log,
	}
}

type rankedAmbulance struct {
	ambulance  *models.Ambulance
	distanceKM float64
	hasBase    bool
}

// rankCandidates orders the pool nearest first. Units without a recorded base
// location sink to the back via a sentinel distance; the sort is stable so
// ties and unknown-base units keep their pool (creation) order.
func rankCandidates(candidates []*models.Ambulance, lat, lng float64) []rankedAmbulance {
	ranked := make([]rankedAmbulance, 0, len(candidates))
	for _, amb := range candidates {
		r := rankedAmbulance{ambulance: amb, distanceKM: utils.UnknownBaseDistanceKM}
		if amb.HasBaseLocation() {
			r.distanceKM = utils.CalculateDistance(lat, lng, *amb.BaseLatitude, *amb.BaseLongitude)
			r.hasBase = true
		}
		ranked = append(ranked, r)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distanceKM < ranked[j].distanceKM
	})
	return ranked
}

// FindAndAssign picks the best available ambulance and reserves it for the
// trip. An empty pool is not an error: it returns (nil, nil) and the caller
// proceeds without an assignment. When a reservation races and loses, the
// pool is re-read and selection retried once before giving up.
func (s *fleetService) FindAndAssign(ctx context.Context, lat, lng *float64, trip models.TripRef) (*models.AssignedAmbulance, error) {
	for attempt := 0; attempt < utils.AssignRetryAttempts; attempt++ {
		candidates, err := s.ambulanceRepo.GetAvailable(ctx)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			s.logger.WithField("trip_id", trip.ID()).Warn("No ambulances available for dispatch")
			return nil, nil
		}

		var chosen *models.Ambulance
		var distanceKM *float64
		if lat != nil && lng != nil {
			ranked := rankCandidates(candidates, *lat, *lng)
			chosen = ranked[0].ambulance
			if ranked[0].hasBase {
				d := utils.RoundKM(ranked[0].distanceKM)
				distanceKM = &d
			}
		} else {
			// No caller location, fall back to the longest-waiting unit.
			chosen = candidates[0]
		}

		reserved, err := s.ambulanceRepo.AssignIfAvailable(ctx, chosen.ID, trip)
		if err != nil {
			return nil, err
		}
		if !reserved {
			s.logger.WithAmbulanceID(chosen.ID.Hex()).Debug("Lost reservation race, retrying selection")
			continue
		}

		snapshot := &models.AssignedAmbulance{
			AmbulanceID:      chosen.ID.Hex(),
			VehicleNumber:    chosen.VehicleNumber,
			VehicleType:      string(chosen.VehicleType),
			VehicleMake:      chosen.VehicleMake,
			VehicleModel:     chosen.VehicleModel,
			VehicleYear:      chosen.VehicleYear,
			HasOxygen:        chosen.HasOxygen,
			HasDefibrillator: chosen.HasDefibrillator,
			HasStretcher:     chosen.HasStretcher,
			HasVentilator:    chosen.HasVentilator,
			DriverName:       chosen.DriverName,
			DriverPhone:      chosen.DriverPhone,
			DriverPhotoURL:   chosen.DriverPhotoURL,
			BaseAddress:      chosen.BaseAddress,
			BaseLatitude:     chosen.BaseLatitude,
			BaseLongitude:    chosen.BaseLongitude,
			OperatorID:       chosen.OperatorID,
			DistanceKM:       distanceKM,
		}
		s.logger.LogDispatchEvent(trip.ID(), "ambulance_assigned", map[string]interface{}{
			"ambulance_id":   snapshot.AmbulanceID,
			"vehicle_number": snapshot.VehicleNumber,
		})
		return snapshot, nil
	}

	s.logger.WithField("trip_id", trip.ID()).Warn("Reservation retries exhausted, dispatching without ambulance")
	return nil, nil
}

// Release puts an ambulance back in the available pool. It is deliberately
// lenient: releasing an unknown or already-released unit logs and succeeds,
// so cancellation flows never fail on cleanup.
func (s *fleetService) Release(ctx context.Context, ambulanceID string) error {
	id, err := primitive.ObjectIDFromHex(ambulanceID)
	if err != nil {
		s.logger.WithAmbulanceID(ambulanceID).Warn("Invalid ambulance ID on release, skipping")
		return nil
	}

	if err := s.ambulanceRepo.Release(ctx, id); err != nil {
		if err == models.ErrNotFound {
			s.logger.WithAmbulanceID(ambulanceID).Warn("Release of unknown ambulance, skipping")
			return nil
		}
		return err
	}

	s.logger.WithAmbulanceID(ambulanceID).Info("Ambulance released")
	return nil
}

// GetAssignmentForTrip resolves which ambulance, if any, is currently
// assigned to the given SOS or booking ID.
func (s *fleetService) GetAssignmentForTrip(ctx context.Context, tripID string) (*models.Ambulance, error) {
	return s.ambulanceRepo.GetByTripRef(ctx, tripID)
}
