package tracking

import (
	"context"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ambudispatch/internal/config"
	"ambudispatch/internal/models"
	"ambudispatch/internal/repositories/interfaces"
	"ambudispatch/internal/utils"
	"ambudispatch/pkg/logger"
	"ambudispatch/pkg/routing"
)

// vehicleTypeLabels maps fleet vehicle types to the short labels shown to
// viewers on the tracking screen.
var vehicleTypeLabels = map[string]string{
	"basic":             "BLS",
	"advanced":          "ALS",
	"patient_transport": "PTS",
	"neonatal":          "NICU",
	"air":               "Air",
}

// Simulator drives a fake ambulance journey through the hub for development
// and demos. It follows a real road route when OSRM answers, seeds the
// driver and vehicle display fields from the trip's assigned ambulance, and
// pushes updates through the exact same path a real driver app would use.
type Simulator struct {
	hub       *Hub
	router    routing.RouteProvider
	bookings  interfaces.BookingRepository
	sosEvents interfaces.SOSRepository
	cfg       *config.TrackingConfig
	logger    *logger.Logger
}

func NewSimulator(
	hub *Hub,
	router routing.RouteProvider,
	bookings interfaces.BookingRepository,
	sosEvents interfaces.SOSRepository,
	cfg *config.TrackingConfig,
	log *logger.Logger,
) *Simulator {
	return &Simulator{
		hub:       hub,
		router:    router,
		bookings:  bookings,
		sosEvents: sosEvents,
		cfg:       cfg,
		logger:    log,
	}
}

// Duration reports how long one full simulated journey takes.
func (s *Simulator) Duration() time.Duration {
	return time.Duration(s.cfg.SimulationSteps) * s.cfg.SimulationStepPause
}

// Start kicks off a simulated journey for the trip. The route is resolved
// synchronously (assignment lookup plus OSRM); the journey itself advances
// in a background goroutine a viewer can watch over the WebSocket stream.
// Starting a trip that is already simulating replaces the running journey.
func (s *Simulator) Start(ctx context.Context, tripID string) {
	assigned := s.resolveAssignment(ctx, tripID)

	seed := &models.TrackingUpdate{
		DriverName:    "Rajesh Kumar",
		DriverPhone:   "+91 98765 43210",
		VehicleNumber: "MH 12 AB 1234",
		VehicleType:   utils.DefaultVehicleType,
	}
	dispatch := routing.LatLng{Lat: s.cfg.DefaultDispatchLat, Lng: s.cfg.DefaultDispatchLng}

	if assigned != nil {
		if assigned.DriverName != "" {
			seed.DriverName = assigned.DriverName
		}
		if assigned.DriverPhone != "" {
			seed.DriverPhone = assigned.DriverPhone
		}
		if assigned.VehicleNumber != "" {
			seed.VehicleNumber = assigned.VehicleNumber
		}
		if assigned.VehicleType != "" {
			if label, ok := vehicleTypeLabels[assigned.VehicleType]; ok {
				seed.VehicleType = label
			} else {
				seed.VehicleType = strings.ToUpper(assigned.VehicleType)
			}
		}
		if assigned.BaseLatitude != nil && assigned.BaseLongitude != nil {
			dispatch = routing.LatLng{Lat: *assigned.BaseLatitude, Lng: *assigned.BaseLongitude}
		}
	}

	// Three-point journey: dispatch base to pickup to drop.
	pickup := routing.LatLng{Lat: s.cfg.PickupLat, Lng: s.cfg.PickupLng}
	drop := routing.LatLng{Lat: s.cfg.DropLat, Lng: s.cfg.DropLng}
	route := routing.ConcatLegs(
		s.router.FetchRoute(ctx, dispatch, pickup),
		s.router.FetchRoute(ctx, pickup, drop),
	)

	s.logger.LogTrackingEvent(tripID, "simulation_started", map[string]interface{}{
		"waypoints": len(route),
		"assigned":  assigned != nil,
	})

	runCtx, cancel := context.WithCancel(context.Background())
	handle := s.hub.registerSimulation(tripID, cancel)

	go s.run(runCtx, tripID, seed, route, handle)
}

func (s *Simulator) run(ctx context.Context, tripID string, seed *models.TrackingUpdate, route []routing.LatLng, handle *simHandle) {
	defer s.hub.clearSimulation(tripID, handle)

	steps := s.cfg.SimulationSteps
	for i := 0; i <= steps; i++ {
		progress := float64(i) / float64(steps)

		point, next := interpolate(route, progress)
		heading := utils.CalculateBearing(point.Lat, point.Lng, next.Lat, next.Lng)
		speed := 40 + 20*(1-math.Abs(progress-0.5)*2)
		eta := math.Max(0, utils.DefaultETAMinutes*(1-progress))

		update := &models.TrackingUpdate{
			Latitude:   &point.Lat,
			Longitude:  &point.Lng,
			Heading:    &heading,
			Speed:      &speed,
			ETAMinutes: &eta,
			Status:     statusForProgress(progress),
		}
		if i == 0 {
			update.DriverName = seed.DriverName
			update.DriverPhone = seed.DriverPhone
			update.VehicleNumber = seed.VehicleNumber
			update.VehicleType = seed.VehicleType
		}

		s.hub.PushLocation(tripID, update)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.SimulationStepPause):
		}
	}

	s.logger.LogTrackingEvent(tripID, "simulation_completed", nil)
}

// interpolate places the ambulance along the polyline at progress in [0,1],
// returning the current position and the waypoint it is heading toward.
func interpolate(route []routing.LatLng, progress float64) (routing.LatLng, routing.LatLng) {
	last := len(route) - 1

	floatIndex := progress * float64(last)
	idx := int(floatIndex)
	if idx >= last {
		return route[last], route[last]
	}

	fraction := floatIndex - float64(idx)
	a, b := route[idx], route[idx+1]
	point := routing.LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*fraction,
		Lng: a.Lng + (b.Lng-a.Lng)*fraction,
	}
	return point, b
}

func statusForProgress(progress float64) string {
	switch {
	case progress < 0.10:
		return utils.TripStatusDispatched
	case progress < 0.85:
		return utils.TripStatusEnRoute
	case progress < 0.95:
		return utils.TripStatusNearby
	default:
		return utils.TripStatusArrived
	}
}

// resolveAssignment finds the ambulance snapshot for a trip id that may be
// either a booking id or an SOS id. Every miss is tolerated; the simulation
// falls back to canned display data.
func (s *Simulator) resolveAssignment(ctx context.Context, tripID string) *models.AssignedAmbulance {
	if booking, err := s.bookings.GetByID(ctx, tripID); err == nil {
		if booking.AssignedAmbulance != nil {
			return booking.AssignedAmbulance
		}
		if booking.SOSID != "" {
			return s.assignmentFromSOS(ctx, booking.SOSID)
		}
		return nil
	}

	return s.assignmentFromSOS(ctx, tripID)
}

func (s *Simulator) assignmentFromSOS(ctx context.Context, sosID string) *models.AssignedAmbulance {
	id, err := primitive.ObjectIDFromHex(sosID)
	if err != nil {
		return nil
	}
	event, err := s.sosEvents.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	return event.AssignedAmbulance
}
