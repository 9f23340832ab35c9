// Package events defines the catalog events published after successful writes.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/storefront/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// StoreEvent describes a change to a single store.
type StoreEvent struct {
	subject    string
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	StoreID    int64                  `json:"store_id"`
	StoreName  string                 `json:"store_name,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewStoreCreated(carrier propagation.MapCarrier, id int64, name string) StoreEvent {
	return StoreEvent{subject: messaging.StoreCreatedSubject, Carrier: carrier, StoreID: id, StoreName: name, OccurredAt: time.Now().UTC()}
}

func NewStoreUpdated(carrier propagation.MapCarrier, id int64, name string) StoreEvent {
	return StoreEvent{subject: messaging.StoreUpdatedSubject, Carrier: carrier, StoreID: id, StoreName: name, OccurredAt: time.Now().UTC()}
}

func NewStoreDeleted(carrier propagation.MapCarrier, id int64) StoreEvent {
	return StoreEvent{subject: messaging.StoreDeletedSubject, Carrier: carrier, StoreID: id, OccurredAt: time.Now().UTC()}
}

func (e StoreEvent) Subject() string {
	return e.subject
}

func (e StoreEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductEvent describes a change to a single product.
type ProductEvent struct {
	subject    string
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID  int64                  `json:"product_id"`
	StoreID    int64                  `json:"store_id,omitempty"`
	Name       string                 `json:"name,omitempty"`
	Quantity   int32                  `json:"quantity"`
	Price      float64                `json:"price"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// ProductSnapshot is the product state carried by created and updated events.
type ProductSnapshot struct {
	ID       int64
	StoreID  int64
	Name     string
	Quantity int32
	Price    float64
}

func NewProductCreated(carrier propagation.MapCarrier, p ProductSnapshot) ProductEvent {
	return newProductEvent(messaging.ProductCreatedSubject, carrier, p)
}

func NewProductUpdated(carrier propagation.MapCarrier, p ProductSnapshot) ProductEvent {
	return newProductEvent(messaging.ProductUpdatedSubject, carrier, p)
}

func NewProductDeleted(carrier propagation.MapCarrier, id int64) ProductEvent {
	return ProductEvent{subject: messaging.ProductDeletedSubject, Carrier: carrier, ProductID: id, OccurredAt: time.Now().UTC()}
}

func newProductEvent(subject string, carrier propagation.MapCarrier, p ProductSnapshot) ProductEvent {
	return ProductEvent{
		subject:    subject,
		Carrier:    carrier,
		ProductID:  p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		Quantity:   p.Quantity,
		Price:      p.Price,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// StoreProductsDeletedEvent is published after all products of a store were removed.
type StoreProductsDeletedEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	StoreID    int64                  `json:"store_id"`
	Deleted    int64                  `json:"deleted"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewStoreProductsDeleted(carrier propagation.MapCarrier, storeID, deleted int64) StoreProductsDeletedEvent {
	return StoreProductsDeletedEvent{Carrier: carrier, StoreID: storeID, Deleted: deleted, OccurredAt: time.Now().UTC()}
}

func (e StoreProductsDeletedEvent) Subject() string {
	return messaging.StoreProductsDeletedSubject
}

func (e StoreProductsDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
