package messaging

// Subjects published on every successful catalog write.
const (
	StoreCreatedSubject         = "catalog.store.created"
	StoreUpdatedSubject         = "catalog.store.updated"
	StoreDeletedSubject         = "catalog.store.deleted"
	StoreProductsDeletedSubject = "catalog.store.products.deleted"
	ProductCreatedSubject       = "catalog.product.created"
	ProductUpdatedSubject       = "catalog.product.updated"
	ProductDeletedSubject       = "catalog.product.deleted"
)

// CatalogSubjects is the subject filter a stream needs to capture all catalog events.
const CatalogSubjects = "catalog.>"
