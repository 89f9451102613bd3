// errors/compliance_errors.go
package errors

import "errors"

var (
	ErrInvalidMasterType      = errors.New("invalid master variable type")
	ErrDerivedFieldImmutable  = errors.New("derived master variable cannot be set directly")
	ErrMasterVariableNotFound = errors.New("master variable not found")
	ErrCheckNotFound          = errors.New("compliance check not found")
	ErrInvalidVariableData    = errors.New("invalid variable data")
	ErrInvalidIntegrationData = errors.New("invalid integration data")
	ErrDatabaseOperation      = errors.New("database operation failed")
	ErrInternalServer         = errors.New("internal server error")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidPagination      = errors.New("invalid pagination parameters")
)
