package domain

import "context"

//go:generate mockgen -source=slot_repository.go -destination=slot_repository_mock.go -package=domain

type SlotRepository interface {
	// Load never fails; unreadable state is reported as an empty map.
	Load(ctx context.Context) NotifiedSlots
	Save(ctx context.Context, slots NotifiedSlots) error
}
