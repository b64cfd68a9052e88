package store

import (
	"context"
	"errors"
	"fmt"

	"fitFlowAPI/internal/checkin"
	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/internal/photo"
	"fitFlowAPI/internal/user"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore stores users/{uid} with dailyStatus, foodLog and progressPhotos
// subcollections keyed by day key (photos by id).
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) userRef(uid string) *firestore.DocumentRef {
	return f.client.Collection(CollectionUsers).Doc(uid)
}

func (f *Firestore) sub(uid, collection string) *firestore.CollectionRef {
	return f.userRef(uid).Collection(collection)
}

// mapErr translates gRPC status codes into the package sentinels.
func mapErr(op string, err error) error {
	switch status.Code(err) {
	case codes.OK:
		return nil
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted:
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (f *Firestore) GetUserDocument(ctx context.Context, uid string) (*user.Document, error) {
	snap, err := f.userRef(uid).Get(ctx)
	if err != nil {
		return nil, mapErr("get user "+uid, err)
	}
	var doc user.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", uid, err)
	}
	return &doc, nil
}

func (f *Firestore) UpdateUserDocument(ctx context.Context, uid string, patch user.Patch) error {
	if len(patch) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(patch))
	for field, v := range patch {
		updates = append(updates, firestore.Update{Path: field, Value: v})
	}

	_, err := f.userRef(uid).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		_, err = f.userRef(uid).Set(ctx, map[string]any(patch))
	}
	if err != nil {
		return mapErr("update user "+uid, err)
	}
	return nil
}

func (f *Firestore) GetDayStatus(ctx context.Context, uid string, day daykey.Key) (*checkin.CheckIn, error) {
	snap, err := f.sub(uid, CollectionDailyStatus).Doc(day.String()).Get(ctx)
	if err != nil {
		return nil, mapErr("get day status "+day.String(), err)
	}
	return decodeCheckIn(snap)
}

func decodeCheckIn(snap *firestore.DocumentSnapshot) (*checkin.CheckIn, error) {
	var c checkin.CheckIn
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decode day status %s: %w", snap.Ref.ID, err)
	}
	// older records only carry the day in the document id
	if c.Date == "" {
		c.Date = daykey.Key(snap.Ref.ID)
	}
	return &c, nil
}

func (f *Firestore) SetDayStatus(ctx context.Context, uid string, c checkin.CheckIn) error {
	_, err := f.sub(uid, CollectionDailyStatus).Doc(c.Date.String()).Set(ctx, c)
	return mapErr("set day status "+c.Date.String(), err)
}

func (f *Firestore) DeleteDayStatus(ctx context.Context, uid string, day daykey.Key) error {
	_, err := f.sub(uid, CollectionDailyStatus).Doc(day.String()).Delete(ctx)
	return mapErr("delete day status "+day.String(), err)
}

func (f *Firestore) ScanDayStatuses(ctx context.Context, uid string) ([]checkin.CheckIn, error) {
	var out []checkin.CheckIn
	err := f.scan(ctx, f.sub(uid, CollectionDailyStatus), func(snap *firestore.DocumentSnapshot) error {
		c, err := decodeCheckIn(snap)
		if err != nil {
			return err
		}
		out = append(out, *c)
		return nil
	})
	return out, err
}

func (f *Firestore) GetFoodLog(ctx context.Context, uid string, day daykey.Key) (*food.DayLog, error) {
	snap, err := f.sub(uid, CollectionFoodLog).Doc(day.String()).Get(ctx)
	if err != nil {
		return nil, mapErr("get food log "+day.String(), err)
	}
	return decodeFoodLog(snap)
}

func decodeFoodLog(snap *firestore.DocumentSnapshot) (*food.DayLog, error) {
	var l food.DayLog
	if err := snap.DataTo(&l); err != nil {
		return nil, fmt.Errorf("decode food log %s: %w", snap.Ref.ID, err)
	}
	if l.Date == "" {
		l.Date = daykey.Key(snap.Ref.ID)
	}
	return &l, nil
}

func (f *Firestore) SetFoodLog(ctx context.Context, uid string, l food.DayLog) error {
	_, err := f.sub(uid, CollectionFoodLog).Doc(l.Date.String()).Set(ctx, l)
	return mapErr("set food log "+l.Date.String(), err)
}

func (f *Firestore) ScanFoodLogs(ctx context.Context, uid string) ([]food.DayLog, error) {
	var out []food.DayLog
	err := f.scan(ctx, f.sub(uid, CollectionFoodLog), func(snap *firestore.DocumentSnapshot) error {
		l, err := decodeFoodLog(snap)
		if err != nil {
			return err
		}
		out = append(out, *l)
		return nil
	})
	return out, err
}

func (f *Firestore) AddProgressPhoto(ctx context.Context, uid string, p photo.Photo) error {
	_, err := f.sub(uid, CollectionProgressPhotos).Doc(p.ID).Set(ctx, p)
	return mapErr("add photo "+p.ID, err)
}

func (f *Firestore) DeleteProgressPhoto(ctx context.Context, uid, id string) error {
	_, err := f.sub(uid, CollectionProgressPhotos).Doc(id).Delete(ctx, firestore.Exists)
	return mapErr("delete photo "+id, err)
}

func (f *Firestore) ScanProgressPhotos(ctx context.Context, uid string) ([]photo.Photo, error) {
	var out []photo.Photo
	err := f.scan(ctx, f.sub(uid, CollectionProgressPhotos), func(snap *firestore.DocumentSnapshot) error {
		var p photo.Photo
		if err := snap.DataTo(&p); err != nil {
			return fmt.Errorf("decode photo %s: %w", snap.Ref.ID, err)
		}
		if p.ID == "" {
			p.ID = snap.Ref.ID
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (f *Firestore) ListUserIDs(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(CollectionUsers).DocumentRefs(ctx)
	var ids []string
	for {
		ref, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapErr("list users", err)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (f *Firestore) scan(ctx context.Context, coll *firestore.CollectionRef, fn func(*firestore.DocumentSnapshot) error) error {
	iter := coll.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return mapErr("scan "+coll.ID, err)
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
