package interfaces

// StoreInterface is one independently persisted collection.
type StoreInterface interface {
	Name() string
	Load() error
	Save() error
	Dirty() bool
}
