package writer

import (
	"context"
	"fmt"

	"github.com/pochkachaiki/datamaker/internal/models/device"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo inserts every record as a document into a collection.
type Mongo struct {
	publisher
	uri        string
	database   string
	collection string
	client     *mongo.Client
	coll       *mongo.Collection
}

func NewMongo(uri, database, collection string, opts ...Option) *Mongo {
	w := &Mongo{uri: uri, database: database, collection: collection}
	w.setup("mongodb", opts)
	return w
}

func (w *Mongo) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isOpen() {
		return nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(w.uri))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	w.client = client
	w.coll = client.Database(w.database).Collection(w.collection)
	w.begin()
	return nil
}

func (w *Mongo) Write(ctx context.Context, r device.Record) error {
	doc, err := encodeDocument(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isOpen() {
		return device.ErrWriterClosed
	}

	coll := w.coll
	return w.async(ctx, r.DeviceID, func(ctx context.Context) (string, error) {
		res, err := coll.InsertOne(ctx, doc)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(res.InsertedID), nil
	})
}

func (w *Mongo) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wasOpen, err := w.end(ctx)
	if !wasOpen {
		return nil
	}
	if derr := w.client.Disconnect(context.Background()); derr != nil && err == nil {
		err = derr
	}
	return err
}

// encodeDocument returns the BSON form of r as stored by the sink.
func encodeDocument(r device.Record) (bson.Raw, error) {
	b, err := bson.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", device.ErrSerialization, r.DeviceID, err)
	}
	return b, nil
}
