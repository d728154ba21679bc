package model

import "time"

// TrackedPackage is a (remote, package) pair mirrored as a local ref.
type TrackedPackage struct {
	Remote    string      `json:"remote"`
	Name      PackageName `json:"name"`
	Ref       string      `json:"ref"`
	TrackedAt time.Time   `json:"tracked_at"`
}

// Resolution is the outcome of resolving a requested name to its owning remote.
// Name differs from Requested only when ViaGroup is set.
type Resolution struct {
	Requested PackageName `json:"requested"`
	Name      PackageName `json:"name"`
	Remote    Remote      `json:"remote"`
	ViaGroup  bool        `json:"via_group"`
	FastPath  bool        `json:"fast_path"`
}
