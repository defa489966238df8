package catalog

import "fmt"

// ErrSKUNotFound indicates a SKU id is not in the catalog
type ErrSKUNotFound struct {
	SKUID string
}

func (e *ErrSKUNotFound) Error() string {
	return fmt.Sprintf("sku not found: %s", e.SKUID)
}

// ErrUnknownEPC indicates no mapping is active for the EPC
type ErrUnknownEPC struct {
	EPC string
}

func (e *ErrUnknownEPC) Error() string {
	return fmt.Sprintf("no active mapping for epc: %s", e.EPC)
}
