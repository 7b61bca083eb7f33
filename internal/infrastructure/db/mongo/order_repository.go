package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

const ordersCollection = "orders"

// OrderRepository persists orders with their line items embedded in a single
// document. Every item mutation re-sums the price inside the same update, so
// the read-modify-recompute-write sequence is atomic at the document level.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

type mongoItem struct {
	ID        string  `bson:"id"`
	Quantity  int     `bson:"quantity"`
	Flavor    string  `bson:"flavor"`
	Size      string  `bson:"size"`
	UnitPrice float64 `bson:"unit_price"`
}

type mongoOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Status    string             `bson:"status"`
	Price     float64            `bson:"price"`
	Items     []mongoItem        `bson:"items"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// recomputedPrice is the aggregation expression that re-sums the order price
// over the current items. Always a full re-sum, never an incremental delta.
var recomputedPrice = bson.M{"$sum": bson.M{"$map": bson.M{
	"input": bson.M{"$ifNull": bson.A{"$items", bson.A{}}},
	"as":    "item",
	"in":    bson.M{"$multiply": bson.A{"$$item.quantity", "$$item.unit_price"}},
}}}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	doc := mongoOrder{
		UserID:    order.UserID,
		Status:    string(order.Status),
		Price:     order.Price,
		Items:     []mongoItem{},
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return toDomainOrder(mo), nil
}

func (r *OrderRepository) FindByItemID(ctx context.Context, itemID string) (*domain.Order, error) {
	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"items.id": itemID}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find order by item: %w", err)
	}
	return toDomainOrder(mo), nil
}

// AddItem appends the item and recomputes the price in one document update.
func (r *OrderRepository) AddItem(ctx context.Context, orderID string, item domain.OrderItem) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	doc := mongoItem{
		ID:        item.ID,
		Quantity:  item.Quantity,
		Flavor:    item.Flavor,
		Size:      item.Size,
		UnitPrice: item.UnitPrice,
	}

	// $literal keeps user-supplied strings from being parsed as expressions.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"items": bson.M{"$concatArrays": bson.A{
			bson.M{"$ifNull": bson.A{"$items", bson.A{}}},
			bson.A{bson.M{"$literal": doc}},
		}}}}},
		{{Key: "$set", Value: bson.M{"price": recomputedPrice, "updated_at": time.Now().UTC()}}},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, domain.ErrOrderNotFound)
}

// RemoveItem drops the item and recomputes the price in one document update.
func (r *OrderRepository) RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"items": bson.M{"$filter": bson.M{
			"input": bson.M{"$ifNull": bson.A{"$items", bson.A{}}},
			"as":    "item",
			"cond":  bson.M{"$ne": bson.A{"$$item.id", itemID}},
		}}}}},
		{{Key: "$set", Value: bson.M{"price": recomputedPrice, "updated_at": time.Now().UTC()}}},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid, "items.id": itemID}, pipeline, domain.ErrItemNotFound)
}

// UpdateStatus transitions the order, conditional on the expected current
// status. A filter miss means a concurrent transition won the race.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, current, next domain.OrderStatus) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	filter := bson.M{"_id": oid, "status": string(current)}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"status": string(next), "updated_at": time.Now().UTC()}}},
	}

	return r.findOneAndUpdate(ctx, filter, pipeline, domain.ErrInvalidTransition)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *OrderRepository) ListByOwner(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	for cursor.Next(ctx) {
		var mo mongoOrder
		if err := cursor.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, toDomainOrder(mo))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// EnsureIndexes creates the lookup indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "items.id", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *OrderRepository) findOneAndUpdate(ctx context.Context, filter bson.M, pipeline mongo.Pipeline, notFound error) (*domain.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mo mongoOrder
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return toDomainOrder(mo), nil
}

func toDomainOrder(mo mongoOrder) *domain.Order {
	items := make([]domain.OrderItem, 0, len(mo.Items))
	for _, item := range mo.Items {
		items = append(items, domain.OrderItem{
			ID:        item.ID,
			Quantity:  item.Quantity,
			Flavor:    item.Flavor,
			Size:      item.Size,
			UnitPrice: item.UnitPrice,
		})
	}

	return &domain.Order{
		ID:        mo.ID.Hex(),
		UserID:    mo.UserID,
		Status:    domain.OrderStatus(mo.Status),
		Price:     mo.Price,
		Items:     items,
		CreatedAt: mo.CreatedAt.UTC(),
		UpdatedAt: mo.UpdatedAt.UTC(),
	}
}
