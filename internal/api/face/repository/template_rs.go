package faceRepository

import (
	"Veriface/internal/api/face"
	"Veriface/internal/entity"
	contextPkg "Veriface/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
)

type faceTemplateDB struct {
	Identity  sql.NullString  `db:"identity"`
	Embedding pgvector.Vector `db:"embedding"`
	PhotoURL  sql.NullString  `db:"photo_url"`
	CreatedAt sql.NullTime    `db:"created_at"`
	UpdatedAt sql.NullTime    `db:"updated_at"`
}

func (row faceTemplateDB) toEntity() entity.FaceTemplate {
	raw := row.Embedding.Slice()
	embedding := make([]float64, len(raw))
	for i, v := range raw {
		embedding[i] = float64(v)
	}

	return entity.FaceTemplate{
		Identity:  row.Identity.String,
		Embedding: embedding,
		PhotoURL:  row.PhotoURL.String,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func toVector(embedding []float64) pgvector.Vector {
	raw := make([]float32, len(embedding))
	for i, v := range embedding {
		raw[i] = float32(v)
	}
	return pgvector.NewVector(raw)
}

func (r *templateRepository) Upsert(c context.Context, template entity.FaceTemplate) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"identity":   template.Identity,
		"embedding":  toVector(template.Embedding),
		"photo_url":  template.PhotoURL,
		"created_at": time.Now(),
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(queryUpsertTemplate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for Upsert")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   template.Identity,
			"error":      err.Error(),
		}).Error("Database error when upserting face template")
		return err
	}

	return nil
}

// GetAll is a full scan: order is unspecified, and the matcher does not
// depend on it. Linear growth with the register size is the documented
// scaling limit of the whole matching path.
func (r *templateRepository) GetAll(c context.Context) ([]entity.FaceTemplate, error) {
	requestID := contextPkg.GetRequestID(c)

	rows, err := r.q.QueryxContext(c, r.q.Rebind(queryGetAllTemplates))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when scanning face templates")
		return nil, err
	}
	defer rows.Close()

	var templates []entity.FaceTemplate
	for rows.Next() {
		var row faceTemplateDB
		if err := rows.StructScan(&row); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to scan face template row")
			return nil, err
		}
		templates = append(templates, row.toEntity())
	}

	return templates, rows.Err()
}

func (r *templateRepository) GetByIdentity(c context.Context, identity string) (entity.FaceTemplate, error) {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"identity": identity,
	}

	query, args, err := sqlx.Named(queryGetTemplateByIdentity, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByIdentity named query preparation err")
		return entity.FaceTemplate{}, err
	}
	query = r.q.Rebind(query)

	var row faceTemplateDB
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.FaceTemplate{}, face.ErrIdentityNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   identity,
			"error":      err.Error(),
		}).Error("Database error when getting face template")
		return entity.FaceTemplate{}, err
	}

	return row.toEntity(), nil
}

func (r *templateRepository) Delete(c context.Context, identity string) error {
	requestID := contextPkg.GetRequestID(c)

	argsKV := map[string]interface{}{
		"identity": identity,
	}

	query, args, err := sqlx.Named(queryDeleteTemplate, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Delete named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"identity":   identity,
			"error":      err.Error(),
		}).Error("Database error when deleting face template")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return face.ErrIdentityNotFound
	}

	return nil
}
