package faceRepository

const (
	queryUpsertTemplate = `
INSERT INTO face_templates (identity, embedding, photo_url, created_at, updated_at)
VALUES (:identity, :embedding, :photo_url, :created_at, :updated_at)
ON CONFLICT (identity) DO UPDATE
SET embedding  = EXCLUDED.embedding,
    photo_url  = EXCLUDED.photo_url,
    updated_at = EXCLUDED.updated_at`

	queryGetAllTemplates = `
SELECT identity, embedding, photo_url, created_at, updated_at
FROM face_templates`

	queryGetTemplateByIdentity = `
SELECT identity, embedding, photo_url, created_at, updated_at
FROM face_templates
    WHERE identity = :identity`

	queryDeleteTemplate = `
DELETE FROM face_templates
WHERE identity = :identity`
)
