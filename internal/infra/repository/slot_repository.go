package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
)

type slotRepository struct {
	store domain.KeyValueStore
}

// NewSlotRepository persists notified slots as one JSON object under
// domain.KeyNotifiedSlots. Entries are never pruned.
func NewSlotRepository(store domain.KeyValueStore) domain.SlotRepository {
	return &slotRepository{
		store: store,
	}
}

func (r *slotRepository) Load(ctx context.Context) domain.NotifiedSlots {
	raw, err := r.store.Get(ctx, domain.KeyNotifiedSlots)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			slog.WarnContext(ctx, "failed to read notified slots, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return domain.NotifiedSlots{}
	}

	slots, err := decodeSlots(raw)
	if err != nil {
		slog.WarnContext(ctx, "discarding unreadable notified slots",
			slog.String("error", err.Error()),
		)
		return domain.NotifiedSlots{}
	}
	return slots
}

func (r *slotRepository) Save(ctx context.Context, slots domain.NotifiedSlots) error {
	if slots == nil {
		slots = domain.NotifiedSlots{}
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode notified slots: %w", err)
	}

	if err := r.store.Set(ctx, domain.KeyNotifiedSlots, string(data)); err != nil {
		return fmt.Errorf("failed to save notified slots: %w", err)
	}
	return nil
}

// decodeSlots accepts only a JSON object; string values are kept and anything else is dropped.
func decodeSlots(raw string) (domain.NotifiedSlots, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSlotData, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidSlotData)
	}

	slots := make(domain.NotifiedSlots, len(entries))
	for id, v := range entries {
		var slot string
		if err := json.Unmarshal(v, &slot); err != nil {
			continue
		}
		slots[id] = slot
	}
	return slots, nil
}
