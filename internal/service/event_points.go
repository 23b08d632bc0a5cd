package service

import "github.com/serviconnect/backend/internal/model"

var eventPoints = map[model.EventKind]int64{
	model.EventAppointmentCompleted: 5,
	model.EventReviewCreated:        3,
}

// EventPoints returns the points granted for kind. Unlisted kinds are worth 0.
func EventPoints(kind model.EventKind) int64 {
	return eventPoints[kind]
}
