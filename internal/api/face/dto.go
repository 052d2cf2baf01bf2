package face

import "time"

type RegisterFaceRequest struct {
	Name string `form:"name" validate:"required,min=2,max=255"`
}

type RegisterFaceResponse struct {
	Status   string `json:"status"`
	Identity string `json:"identity"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type FaceStatusResponse struct {
	Identity     string    `json:"identity"`
	IsRegistered bool      `json:"is_registered"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	RegisteredAt time.Time `json:"registered_at,omitempty"`
}
