package errs

import "errors"

// Domain-specific sentinel errors for the saga and usecase layers
var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidState        = errors.New("transaction is not in the required status")

	// Inventory errors
	ErrInventoryNotFound     = errors.New("inventory record not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidRelease        = errors.New("cannot release more than reserved")

	// Saga correlation errors
	ErrMissingProductID = errors.New("product id missing from saga payload")

	// Collaborator errors
	ErrGateway                 = errors.New("payment gateway call failed")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
