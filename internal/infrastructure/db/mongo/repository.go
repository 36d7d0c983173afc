package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/basewebproject/base-api/internal/core/domain"
	"github.com/basewebproject/base-api/internal/infrastructure/db/dberr"
)

// Repository is a generic document store keyed by a numeric _id.
type Repository[E any, P domain.Identifiable[E]] struct {
	col  *mongo.Collection
	seq  *Sequence
	name string
	now  func() time.Time
}

func NewRepository[E any, P domain.Identifiable[E]](db *mongo.Database, collection string) *Repository[E, P] {
	return &Repository[E, P]{
		col:  db.Collection(collection),
		seq:  NewSequence(db),
		name: collection,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository[E, P]) FindAll(ctx context.Context) ([]E, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *Repository[E, P]) FindByID(ctx context.Context, id int64) (*E, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var entity E
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&entity); err != nil {
		return nil, dberr.Translate(err)
	}
	return &entity, nil
}

func (r *Repository[E, P]) FindPage(ctx context.Context, offset, limit int) ([]E, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, r.readErr("count", err)
	}

	items, err := r.find(ctx, options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repository[E, P]) Insert(ctx context.Context, entity *E) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	id, err := r.seq.Next(ctx, r.name)
	if err != nil {
		return err
	}

	p := P(entity)
	p.SetEntityID(id)
	r.touch(entity)

	if _, err := r.col.InsertOne(ctx, entity); err != nil {
		p.SetEntityID(0)
		return dberr.Translate(err)
	}
	return nil
}

func (r *Repository[E, P]) Save(ctx context.Context, entity *E) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	r.touch(entity)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": P(entity).EntityID()}, entity)
	if err != nil {
		return dberr.Translate(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *Repository[E, P]) Remove(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return dberr.Translate(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *Repository[E, P]) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, r.readErr("exists in", err)
	}
	return n > 0, nil
}

func (r *Repository[E, P]) find(ctx context.Context, opts *options.FindOptions) ([]E, error) {
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, r.readErr("find", err)
	}
	defer cur.Close(ctx)

	items := []E{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, r.readErr("decode", err)
	}
	return items, nil
}

// readErr names the failed step and classifies the driver error the same way
// the write paths do.
func (r *Repository[E, P]) readErr(step string, err error) error {
	return dberr.Translate(fmt.Errorf("%s %s: %w", step, r.name, err))
}

func (r *Repository[E, P]) touch(entity *E) {
	if t, ok := any(entity).(domain.Toucher); ok {
		t.Touch(r.now())
	}
}
