package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ModelKind distinguishes built-in system models from user-defined ones
type ModelKind string

const (
	ModelKindSystem ModelKind = "system"
	ModelKindUser   ModelKind = "user"
)

// ModelInfo describes a prediction model. Names, descriptions and kinds live
// here and nowhere else, so the engine and every presentation surface read
// the same definition.
type ModelInfo struct {
	ID          uuid.UUID  `db:"id" json:"id" validate:"required"`
	Name        string     `db:"name" json:"name" validate:"required"`
	Kind        ModelKind  `db:"kind" json:"kind" validate:"required,oneof=system user"`
	OwnerID     *uuid.UUID `db:"owner_id" json:"owner_id"`
	Description string     `db:"description" json:"description"`
	Active      bool       `db:"active" json:"active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// IsUserModel reports whether the model was defined by a user
func (m *ModelInfo) IsUserModel() bool {
	return m.Kind == ModelKindUser
}

// Registry is an in-memory index of known models for one run
type Registry struct {
	byID map[uuid.UUID]ModelInfo
}

// NewRegistry builds a registry from a model list
func NewRegistry(infos []ModelInfo) *Registry {
	byID := make(map[uuid.UUID]ModelInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}
	return &Registry{byID: byID}
}

// Get looks up a model by ID
func (r *Registry) Get(id uuid.UUID) (ModelInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// Name returns the display name for a model, or the raw ID for unknown models
func (r *Registry) Name(id uuid.UUID) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id.String()
}

// All returns every registered model sorted by name
func (r *Registry) All() []ModelInfo {
	infos := make([]ModelInfo, 0, len(r.byID))
	for _, info := range r.byID {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Active returns every active model sorted by name
func (r *Registry) Active() []ModelInfo {
	infos := r.All()
	active := infos[:0]
	for _, info := range infos {
		if info.Active {
			active = append(active, info)
		}
	}
	return active
}

// Len returns the number of registered models
func (r *Registry) Len() int {
	return len(r.byID)
}
