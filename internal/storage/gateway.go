package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/dayly/internal/model"
)

const ActivitiesKey = "activities_json"

// ActivityGateway persists the whole activity list as one JSON string
// under ActivitiesKey.
type ActivityGateway struct {
	kv  KVStore
	key string
}

func NewActivityGateway(kv KVStore) *ActivityGateway {
	return &ActivityGateway{kv: kv, key: ActivitiesKey}
}

func (g *ActivityGateway) Load(ctx context.Context) ([]model.Activity, error) {
	raw, ok, err := g.kv.Get(ctx, g.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", g.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	return UnmarshalActivities(FormatJSON, []byte(raw))
}

func (g *ActivityGateway) Save(ctx context.Context, items []model.Activity) error {
	payload, err := MarshalActivities(FormatJSON, items)
	if err != nil {
		return err
	}
	if err := g.kv.Put(ctx, g.key, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w", g.key, err)
	}
	return nil
}
