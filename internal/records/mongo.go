package records

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"waterhole/internal/utils"
)

// MongoClient implements Client on top of MongoDB: one collection per table,
// integer ids handed out by a counters collection so the external contract
// (store-assigned integer ids) holds.
type MongoClient struct {
	client   *mongo.Client
	db       *mongo.Database
	counters *mongo.Collection
}

func NewMongoClient(uri string, dbName string) (*MongoClient, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	db := client.Database(dbName)
	return &MongoClient{
		client:   client,
		db:       db,
		counters: db.Collection("counters"),
	}, nil
}

func (m *MongoClient) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// nextID reserves the next integer id for a table.
func (m *MongoClient) nextID(ctx context.Context, table string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := m.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": table},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrRemoteRejected, "failed to allocate record id", err)
	}
	return counter.Seq, nil
}

func (m *MongoClient) FetchRecords(ctx context.Context, table string, query Query) ([]Record, error) {
	filter := whereToFilter(query.Where)

	findOpts := options.Find()
	if len(query.OrderBy) > 0 {
		sortDoc := bson.D{}
		for _, by := range query.OrderBy {
			direction := 1
			if by.Desc {
				direction = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: by.Field, Value: direction})
		}
		findOpts.SetSort(sortDoc)
	}
	if query.Paging != nil {
		findOpts.SetSkip(int64(query.Paging.Offset))
		if query.Paging.Limit > 0 {
			findOpts.SetLimit(int64(query.Paging.Limit))
		}
	}
	if len(query.Fields) > 0 {
		projection := bson.M{}
		for _, f := range query.Fields {
			projection[f] = 1
		}
		findOpts.SetProjection(projection)
	}

	cursor, err := m.db.Collection(table).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrRemoteRejected, "record fetch failed", err)
	}
	defer cursor.Close(ctx)

	var out []Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrMalformedData, "failed to decode record", err)
		}
		out = append(out, docToRecord(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrRemoteRejected, "record cursor failed", err)
	}
	return out, nil
}

func (m *MongoClient) GetRecordByID(ctx context.Context, table string, id int, query Query) (Record, error) {
	findOpts := options.FindOne()
	if len(query.Fields) > 0 {
		projection := bson.M{}
		for _, f := range query.Fields {
			projection[f] = 1
		}
		findOpts.SetProjection(projection)
	}

	var doc bson.M
	err := m.db.Collection(table).FindOne(ctx, bson.M{"_id": id}, findOpts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("record")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrRemoteRejected, "record lookup failed", err)
	}
	return docToRecord(doc), nil
}

func (m *MongoClient) CreateRecord(ctx context.Context, table string, fields Record) (Record, error) {
	id, err := m.nextID(ctx, table)
	if err != nil {
		return nil, err
	}

	doc := bson.M{"_id": id}
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		doc[k] = v
	}

	if _, err := m.db.Collection(table).InsertOne(ctx, doc); err != nil {
		return nil, utils.NewAppError(utils.ErrRemoteRejected, "record create failed", err)
	}
	return docToRecord(doc), nil
}

func (m *MongoClient) UpdateRecord(ctx context.Context, table string, id int, fields Record) (Record, error) {
	set := bson.M{}
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		set[k] = v
	}

	var doc bson.M
	err := m.db.Collection(table).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("record")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrRemoteRejected, "record update failed", err)
	}
	return docToRecord(doc), nil
}

func (m *MongoClient) DeleteRecords(ctx context.Context, table string, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := m.db.Collection(table).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return utils.NewAppError(utils.ErrRemoteRejected, "record delete failed", err)
	}
	return nil
}

func whereToFilter(conditions []Where) bson.M {
	filter := bson.M{}
	for _, cond := range conditions {
		switch cond.Operator {
		case OpEqualTo:
			if len(cond.Values) == 1 {
				filter[cond.FieldName] = cond.Values[0]
			} else {
				filter[cond.FieldName] = bson.M{"$in": cond.Values}
			}
		case OpGreaterThanOrEqualTo:
			if len(cond.Values) > 0 {
				filter[cond.FieldName] = bson.M{"$gte": cond.Values[0]}
			}
		}
	}
	return filter
}

func docToRecord(doc bson.M) Record {
	rec := make(Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			rec[FieldID] = v
			continue
		}
		rec[k] = v
	}
	return rec
}
