package providerRepo

import "islandeats/models"

// ProviderRepository is the read-only source of truth for the provider
// directory. Records are maintained out of band (an ops spreadsheet import
// writes the collection); the engine only ever reads.
type ProviderRepository interface {
	GetByID(id string) (*models.ProviderRecord, error)
	GetAll() ([]models.ProviderRecord, error)
}
