package config

const (
	// DefaultDatabasePath is the default path for the on-device journal database
	DefaultDatabasePath = "./food-journal.db"

	// DefaultImagesDir is where picked images are copied to
	DefaultImagesDir = "./images"
)
