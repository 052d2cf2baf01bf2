package entity

import "time"

// EmbeddingDimensions is fixed by the face encoder model; every stored and
// queried vector must have exactly this length.
const EmbeddingDimensions = 128

// Point is a landmark coordinate in image-pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSet is the ordered 68-point facial landmark layout (dlib
// convention) for a single detected face in a single frame. It is produced
// and consumed within one liveness check and never persisted.
type LandmarkSet []Point

// FaceTemplate is the stored facial signature for one registered identity.
// One template per identity; re-registration overwrites the vector.
type FaceTemplate struct {
	Identity  string    `db:"identity"`
	Embedding []float64 `db:"-"`
	PhotoURL  string    `db:"photo_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IdentityMatch is the transient result of a matcher query.
type IdentityMatch struct {
	Identity string
	Distance float64
	Matched  bool
}
