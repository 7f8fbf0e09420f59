package tracking

import (
	"sync"
	"time"

	"ambudispatch/internal/models"
	"ambudispatch/internal/utils"
)

// Subscriber is one live viewer of a trip. Updates arrive on C; the hub
// closes C when the subscriber is pruned or unsubscribed.
type Subscriber struct {
	C chan models.TrackingSnapshot
}

// session holds the live tracking state for one trip. All access goes
// through mu; the hub never hands out the struct itself, only value copies
// of the snapshot.
type session struct {
	mu          sync.Mutex
	snapshot    models.TrackingSnapshot
	subscribers map[*Subscriber]struct{}
}

func newSession(tripID string) *session {
	return &session{
		snapshot: models.TrackingSnapshot{
			TripID:      tripID,
			ETAMinutes:  utils.DefaultETAMinutes,
			Status:      utils.TripStatusDispatched,
			VehicleType: utils.DefaultVehicleType,
			UpdatedAt:   time.Now().Unix(),
		},
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// apply merges one update into the session state. Optional fields only
// overwrite when present, so a bare lat/lng push never blanks the driver or
// vehicle details a previous push filled in.
func (s *session) apply(update *models.TrackingUpdate) models.TrackingSnapshot {
	s.snapshot.Latitude = *update.Latitude
	s.snapshot.Longitude = *update.Longitude
	if update.Heading != nil {
		s.snapshot.Heading = *update.Heading
	}
	if update.Speed != nil {
		s.snapshot.Speed = *update.Speed
	}
	if update.ETAMinutes != nil {
		s.snapshot.ETAMinutes = *update.ETAMinutes
	}
	if update.Status != "" {
		s.snapshot.Status = update.Status
	}
	if update.DriverName != "" {
		s.snapshot.DriverName = update.DriverName
	}
	if update.DriverPhone != "" {
		s.snapshot.DriverPhone = update.DriverPhone
	}
	if update.VehicleNumber != "" {
		s.snapshot.VehicleNumber = update.VehicleNumber
	}
	if update.VehicleType != "" {
		s.snapshot.VehicleType = update.VehicleType
	}
	s.snapshot.UpdatedAt = time.Now().Unix()

	return s.snapshot
}

// broadcast fans the snapshot out to every subscriber without blocking. A
// subscriber whose buffer is full cannot keep up; it is closed and removed
// so one slow reader never stalls the rest.
func (s *session) broadcast(snapshot models.TrackingSnapshot) int {
	for sub := range s.subscribers {
		select {
		case sub.C <- snapshot:
		default:
			delete(s.subscribers, sub)
			close(sub.C)
		}
	}
	return len(s.subscribers)
}
