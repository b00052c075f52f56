package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const verificationColumns = `id, original_images, kiosk_images, decision, confidence_score,
	traditional_score, sift_score, deep_score, ocr_match, attempt_number, status, created_at, updated_at`

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) repository.VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *domain.Verification) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	query := `INSERT INTO verifications (id, original_images, kiosk_images, decision, confidence_score,
	          traditional_score, sift_score, deep_score, ocr_match, attempt_number, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query, v.ID, pq.Array(v.OriginalImages), pq.Array(v.KioskImages),
		v.Decision, v.ConfidenceScore, v.TraditionalScore, v.SiftScore, v.DeepScore, v.OCRMatch,
		v.AttemptNumber, v.Status, now, now)
	return err
}

func (r *verificationRepository) GetByID(ctx context.Context, id string) (*domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`
	v, err := scanVerification(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("verification not found")
	}
	return v, err
}

func (r *verificationRepository) UpdateResult(ctx context.Context, v *domain.Verification) error {
	query := `UPDATE verifications SET decision = $2, confidence_score = $3, traditional_score = $4,
	          sift_score = $5, deep_score = $6, ocr_match = $7, attempt_number = $8, status = $9,
	          updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, v.ID, v.Decision, v.ConfidenceScore, v.TraditionalScore,
		v.SiftScore, v.DeepScore, v.OCRMatch, v.AttemptNumber, v.Status)
	return err
}

func (r *verificationRepository) ListUnresolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications
	          WHERE status = $1 AND updated_at < $2 ORDER BY updated_at ASC`
	rows, err := r.db.QueryContext(ctx, query, domain.VerificationStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var verifications []domain.Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		verifications = append(verifications, *v)
	}
	return verifications, rows.Err()
}

func scanVerification(row rowScanner) (*domain.Verification, error) {
	v := &domain.Verification{}
	var original, kiosk pq.StringArray
	err := row.Scan(&v.ID, &original, &kiosk, &v.Decision, &v.ConfidenceScore, &v.TraditionalScore,
		&v.SiftScore, &v.DeepScore, &v.OCRMatch, &v.AttemptNumber, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.OriginalImages = original
	v.KioskImages = kiosk
	return v, nil
}
