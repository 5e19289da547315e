// MongoHandler ships log records to a MongoDB collection without touching
// the hot request path:
//
//   - Handle enqueues into a buffered channel and returns immediately.
//   - One background goroutine drains the channel and writes batched
//     InsertMany calls.
//   - A full queue drops the record; logging never blocks application code.
//   - Close flushes the queue and disconnects.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// LogDocument is the shape written to MongoDB.
type LogDocument struct {
	Time  time.Time `bson:"time"`
	Level string    `bson:"level"`
	Msg   string    `bson:"msg"`
	Attrs bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler is an slog.Handler that writes records to MongoDB
// asynchronously while delegating Enabled/WithAttrs semantics to slog.
type MongoHandler struct {
	client *mongo.Client
	col    *mongo.Collection
	queue  chan LogDocument
	done   chan struct{}
	level  slog.Level
	attrs  []slog.Attr
}

// NewMongoHandler connects to MongoDB and starts the background writer.
func NewMongoHandler(uri, database, collection string, level slog.Level) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("logger/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger/mongo: ping: %w", err)
	}

	h := &MongoHandler{
		client: client,
		col:    client.Database(database).Collection(collection),
		queue:  make(chan LogDocument, mongoQueueSize),
		done:   make(chan struct{}),
		level:  level,
	}
	go h.drain()
	return h, nil
}

func (h *MongoHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	doc := LogDocument{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}
	for _, a := range h.attrs {
		doc.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		doc.Attrs[a.Key] = a.Value.Any()
		return true
	})
	if len(doc.Attrs) == 0 {
		doc.Attrs = nil
	}

	select {
	case h.queue <- doc:
	default:
		// Queue full: drop rather than block the request path.
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *MongoHandler) WithGroup(string) slog.Handler { return h }

// Close flushes pending records and disconnects from MongoDB.
func (h *MongoHandler) Close() error {
	close(h.done)

	// Final synchronous flush of whatever is still queued.
	h.flush(h.collect())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.client.Disconnect(ctx)
}

func (h *MongoHandler) drain() {
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			if batch := h.collect(); len(batch) > 0 {
				h.flush(batch)
			}
		}
	}
}

func (h *MongoHandler) collect() []interface{} {
	var batch []interface{}
	for len(batch) < mongoBatchSize {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
		default:
			return batch
		}
	}
	return batch
}

func (h *MongoHandler) flush(batch []interface{}) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = h.col.InsertMany(ctx, batch)
}

// ── Fan-out ──────────────────────────────────────────────────────────────────

// teeHandler duplicates records to two handlers (stdout + Mongo).
type teeHandler struct {
	a, b slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return t.a.Enabled(ctx, l) || t.b.Enabled(ctx, l)
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if t.a.Enabled(ctx, r.Level) {
		err = t.a.Handle(ctx, r.Clone())
	}
	if t.b.Enabled(ctx, r.Level) {
		if e := t.b.Handle(ctx, r.Clone()); err == nil {
			err = e
		}
	}
	return err
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{a: t.a.WithAttrs(attrs), b: t.b.WithAttrs(attrs)}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{a: t.a.WithGroup(name), b: t.b.WithGroup(name)}
}

// EnableMongo attaches a MongoDB shipping handler alongside the current
// handler. Returns the handler so the caller can Close it on shutdown.
func EnableMongo(uri, database, collection string) (*MongoHandler, error) {
	mh, err := NewMongoHandler(uri, database, collection, slog.LevelInfo)
	if err != nil {
		return nil, err
	}

	L = slog.New(teeHandler{a: L.Handler(), b: mh})
	slog.SetDefault(L)
	return mh, nil
}
