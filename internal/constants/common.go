package constants

// Deployment stages
const (
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"
	TestEnvironment  = "test"
)

// Log levels
const (
	ErrorLevel = "error"
)

// Common string values
const (
	TrueString = "true"
)
