package store

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/goship/internal/pkg/goerror"
	"github.com/shandysiswandi/goship/internal/pkg/instrument"
	"github.com/shandysiswandi/goship/internal/pkg/paginate"
	"github.com/shandysiswandi/goship/internal/shipment/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const collectionShipments = "shipments"

type shipmentDoc struct {
	ID                primitive.ObjectID `bson:"_id"`
	Origin            string             `bson:"origin"`
	Destination       string             `bson:"destination"`
	Status            string             `bson:"status"`
	EstimatedDelivery *time.Time         `bson:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (d shipmentDoc) entity() entity.Shipment {
	return entity.Shipment{
		ID:                d.ID.Hex(),
		Origin:            d.Origin,
		Destination:       d.Destination,
		Status:            entity.Status(d.Status),
		EstimatedDelivery: utcPtr(d.EstimatedDelivery),
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Mongo stores shipments in the "shipments" collection.
type Mongo struct {
	tracer
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongo(client *mongo.Client, database string, ins instrument.Instrumentation) *Mongo {
	return &Mongo{
		tracer: tracer{ins: ins, system: "mongodb"},
		client: client,
		coll:   client.Database(database).Collection(collectionShipments),
	}
}

// EnsureIndexes creates the indexes list queries rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "estimatedDelivery", Value: 1}}},
	})
	return err
}

func (m *Mongo) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return goerror.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return goerror.ErrConflict
	}
	return err
}

func mongoFilter(filter map[string]string) bson.M {
	f := bson.M{}
	if status, ok := filter[entity.FilterStatus]; ok {
		f["status"] = status
	}
	return f
}

func (m *Mongo) Find(ctx context.Context, q paginate.Query) (items []entity.Shipment, err error) {
	ctx, span := m.startSpan(ctx, "Find")
	defer func() { m.endSpan(span, err) }()

	dir := 1
	if q.Descending() {
		dir = -1
	}
	sortBy := entity.SortCreatedAt
	if q.SortBy == entity.SortEstimatedDelivery {
		sortBy = entity.SortEstimatedDelivery
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cur, err := m.coll.Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return nil, m.mapError(err)
	}

	var docs []shipmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, m.mapError(err)
	}

	items = make([]entity.Shipment, len(docs))
	for i, d := range docs {
		items[i] = d.entity()
	}
	return items, nil
}

func (m *Mongo) Count(ctx context.Context, filter map[string]string) (n int64, err error) {
	ctx, span := m.startSpan(ctx, "Count")
	defer func() { m.endSpan(span, err) }()

	n, err = m.coll.CountDocuments(ctx, mongoFilter(filter))
	return n, m.mapError(err)
}

func (m *Mongo) Create(ctx context.Context, s entity.Shipment) (err error) {
	ctx, span := m.startSpan(ctx, "Create")
	defer func() { m.endSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return err
	}

	_, err = m.coll.InsertOne(ctx, shipmentDoc{
		ID:                oid,
		Origin:            s.Origin,
		Destination:       s.Destination,
		Status:            s.Status.String(),
		EstimatedDelivery: s.EstimatedDelivery,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	})
	return m.mapError(err)
}

func (m *Mongo) Get(ctx context.Context, id string) (_ *entity.Shipment, err error) {
	ctx, span := m.startSpan(ctx, "Get")
	defer func() { m.endSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, goerror.ErrNotFound
	}

	var doc shipmentDoc
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, m.mapError(err)
	}

	s := doc.entity()
	return &s, nil
}

func (m *Mongo) Update(ctx context.Context, id string, patch entity.ShipmentPatch, updatedAt time.Time) (_ *entity.Shipment, err error) {
	ctx, span := m.startSpan(ctx, "Update")
	defer func() { m.endSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, goerror.ErrNotFound
	}

	set := bson.M{"updatedAt": updatedAt}
	if patch.Origin != nil {
		set["origin"] = *patch.Origin
	}
	if patch.Destination != nil {
		set["destination"] = *patch.Destination
	}
	if patch.Status != nil {
		set["status"] = patch.Status.String()
	}
	if patch.EstimatedDelivery != nil {
		set["estimatedDelivery"] = *patch.EstimatedDelivery
	}

	var doc shipmentDoc
	err = m.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, m.mapError(err)
	}

	s := doc.entity()
	return &s, nil
}

func (m *Mongo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := m.startSpan(ctx, "Delete")
	defer func() { m.endSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return goerror.ErrNotFound
	}

	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return m.mapError(err)
	}
	if res.DeletedCount == 0 {
		return goerror.ErrNotFound
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) (err error) {
	ctx, span := m.startSpan(ctx, "Ping")
	defer func() { m.endSpan(span, err) }()

	return m.client.Ping(ctx, readpref.Primary())
}
