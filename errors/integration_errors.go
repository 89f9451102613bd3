// errors/integration_errors.go
package errors

import "errors"

var (
	ErrIntegrationNotFound = errors.New("integration not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrNoActiveIntegration = errors.New("no active integration for company")
	ErrSyncInProgress      = errors.New("sync already in progress for integration")

	// ErrUnsupportedIntegrationType is fatal at factory construction time:
	// it indicates misconfiguration, not a transient external failure.
	ErrUnsupportedIntegrationType = errors.New("unsupported integration type")

	ErrConnectionFailed = errors.New("failed to connect to external system")
	ErrFetchFailed      = errors.New("failed to fetch external record")
	ErrExtractionFailed = errors.New("failed to extract variable values")
)
