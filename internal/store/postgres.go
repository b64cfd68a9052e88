package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/photo"
	"fitFlowAPI/internal/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	user_id    TEXT        NOT NULL,
	collection TEXT        NOT NULL,
	doc_id     TEXT        NOT NULL,
	body       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, collection, doc_id)
)`

// Postgres keeps the same document layout as Firestore in a single JSONB
// table. The user document lives in collection "users" with doc_id = uid.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schema); err != nil {
		return pgErr("migrate", err)
	}
	return nil
}

func pgErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (p *Postgres) get(ctx context.Context, uid, collection, id string, dst any) error {
	var body []byte
	err := p.db.QueryRow(ctx,
		`SELECT body FROM documents WHERE user_id = $1 AND collection = $2 AND doc_id = $3`,
		uid, collection, id,
	).Scan(&body)
	if err != nil {
		return pgErr(fmt.Sprintf("get %s/%s/%s", uid, collection, id), err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

func (p *Postgres) put(ctx context.Context, uid, collection, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO documents (user_id, collection, doc_id, body, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, collection, doc_id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		uid, collection, id, body,
	)
	return pgErr(fmt.Sprintf("put %s/%s/%s", uid, collection, id), err)
}

func (p *Postgres) del(ctx context.Context, uid, collection, id string) (int64, error) {
	tag, err := p.db.Exec(ctx,
		`DELETE FROM documents WHERE user_id = $1 AND collection = $2 AND doc_id = $3`,
		uid, collection, id,
	)
	if err != nil {
		return 0, pgErr(fmt.Sprintf("delete %s/%s/%s", uid, collection, id), err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) scan(ctx context.Context, uid, collection string, fn func(body []byte) error) error {
	rows, err := p.db.Query(ctx,
		`SELECT body FROM documents WHERE user_id = $1 AND collection = $2 ORDER BY doc_id`,
		uid, collection,
	)
	if err != nil {
		return pgErr("scan "+collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return pgErr("scan "+collection, err)
		}
		if err := fn(body); err != nil {
			return err
		}
	}
	return pgErr("scan "+collection, rows.Err())
}

func (p *Postgres) GetUserDocument(ctx context.Context, uid string) (*user.Document, error) {
	var doc user.Document
	if err := p.get(ctx, uid, CollectionUsers, uid, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateUserDocument merges the patch into the stored body with the JSONB
// concatenation operator, which replaces top-level keys.
func (p *Postgres) UpdateUserDocument(ctx context.Context, uid string, patch user.Patch) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode patch for %s: %w", uid, err)
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO documents (user_id, collection, doc_id, body, updated_at)
		VALUES ($1, $2, $1, $3, now())
		ON CONFLICT (user_id, collection, doc_id)
		DO UPDATE SET body = documents.body || EXCLUDED.body, updated_at = now()`,
		uid, CollectionUsers, body,
	)
	return pgErr("update user "+uid, err)
}

func (p *Postgres) GetDayStatus(ctx context.Context, uid string, day daykey.Key) (*checkin.CheckIn, error) {
	var c checkin.CheckIn
	if err := p.get(ctx, uid, CollectionDailyStatus, day.String(), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) SetDayStatus(ctx context.Context, uid string, c checkin.CheckIn) error {
	return p.put(ctx, uid, CollectionDailyStatus, c.Date.String(), c)
}

func (p *Postgres) DeleteDayStatus(ctx context.Context, uid string, day daykey.Key) error {
	_, err := p.del(ctx, uid, CollectionDailyStatus, day.String())
	return err
}

func (p *Postgres) ScanDayStatuses(ctx context.Context, uid string) ([]checkin.CheckIn, error) {
	var out []checkin.CheckIn
	err := p.scan(ctx, uid, CollectionDailyStatus, func(body []byte) error {
		var c checkin.CheckIn
		if err := json.Unmarshal(body, &c); err != nil {
			return fmt.Errorf("decode day status: %w", err)
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (p *Postgres) GetFoodLog(ctx context.Context, uid string, day daykey.Key) (*food.DayLog, error) {
	var l food.DayLog
	if err := p.get(ctx, uid, CollectionFoodLog, day.String(), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (p *Postgres) SetFoodLog(ctx context.Context, uid string, l food.DayLog) error {
	return p.put(ctx, uid, CollectionFoodLog, l.Date.String(), l)
}

func (p *Postgres) ScanFoodLogs(ctx context.Context, uid string) ([]food.DayLog, error) {
	var out []food.DayLog
	err := p.scan(ctx, uid, CollectionFoodLog, func(body []byte) error {
		var l food.DayLog
		if err := json.Unmarshal(body, &l); err != nil {
			return fmt.Errorf("decode food log: %w", err)
		}
		out = append(out, l)
		return nil
	})
	return out, err
}

func (p *Postgres) AddProgressPhoto(ctx context.Context, uid string, ph photo.Photo) error {
	return p.put(ctx, uid, CollectionProgressPhotos, ph.ID, ph)
}

func (p *Postgres) DeleteProgressPhoto(ctx context.Context, uid, id string) error {
	n, err := p.del(ctx, uid, CollectionProgressPhotos, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("photo %s/%s: %w", uid, id, ErrNotFound)
	}
	return nil
}

func (p *Postgres) ScanProgressPhotos(ctx context.Context, uid string) ([]photo.Photo, error) {
	var out []photo.Photo
	err := p.scan(ctx, uid, CollectionProgressPhotos, func(body []byte) error {
		var ph photo.Photo
		if err := json.Unmarshal(body, &ph); err != nil {
			return fmt.Errorf("decode photo: %w", err)
		}
		out = append(out, ph)
		return nil
	})
	return out, err
}

func (p *Postgres) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx,
		`SELECT doc_id FROM documents WHERE collection = $1 ORDER BY doc_id`, CollectionUsers)
	if err != nil {
		return nil, pgErr("list users", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, pgErr("list users", err)
		}
		ids = append(ids, id)
	}
	return ids, pgErr("list users", rows.Err())
}
