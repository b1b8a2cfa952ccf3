package driver

import (
	"errors"
	"fmt"
	"strings"
)

// Normalized driver errors.
var (
	ErrInvalidRange = errors.New("INVALID_RANGE")
	ErrBusy         = errors.New("BUSY")
	ErrUnavailable  = errors.New("UNAVAILABLE")
	ErrInternal     = errors.New("INTERNAL")
)

// Resolution errors, carried inside an EntrypointLoadError.
var (
	ErrDriverNotFound = errors.New("no driver registered under that name")
	ErrNoUniqueMatch  = errors.New("multiple drivers registered under that name")
)

// EntrypointLoadError reports a driver that could not be resolved or instantiated.
type EntrypointLoadError struct {
	// EntryPoint names the registry target, "<namespace>.<driver>" for lookup
	// failures or the entry itself for construction failures.
	EntryPoint string
	Err        error
}

func (e *EntrypointLoadError) Error() string {
	return fmt.Sprintf("failed to load driver entry point %s: %v", e.EntryPoint, e.Err)
}

func (e *EntrypointLoadError) Unwrap() error {
	return e.Err
}

// VendorMap defines the error token mapping for a specific vendor.
type VendorMap struct {
	Range       []string // Tokens that map to INVALID_RANGE
	Busy        []string // Tokens that map to BUSY
	Unavailable []string // Tokens that map to UNAVAILABLE
}

// VendorErrorMappings contains the deterministic error mapping tables for all vendors.
//
// Unknown tokens map to INTERNAL. Unknown vendors use the "generic" table.
var VendorErrorMappings = map[string]VendorMap{
	"pica8": {
		Range: []string{
			"VLAN_ID_OUT_OF_RANGE",
			"MTU_OUT_OF_RANGE",
			"INVALID_PORT_MODE",
			"INVALID_INTERFACE_NAME",
			"INVALID_VALUE",
			"SYNTAX_ERROR",
		},
		Busy: []string{
			"DATABASE_LOCKED",
			"COMMIT_IN_PROGRESS",
			"LOCK_DENIED",
			"RESOURCE_IN_USE",
		},
		Unavailable: []string{
			"DEVICE_UNREACHABLE",
			"SESSION_CLOSED",
			"PICOS_NOT_READY",
			"REBOOTING",
		},
	},
	"generic": {
		Range: []string{
			"OUT_OF_RANGE",
			"INVALID_PARAMETER",
			"INVALID_RANGE",
			"BAD_VALUE",
		},
		Busy: []string{
			"BUSY",
			"RETRY",
			"LOCKED",
		},
		Unavailable: []string{
			"UNAVAILABLE",
			"OFFLINE",
			"NOT_READY",
			"UNREACHABLE",
		},
	},
}

// VendorError wraps a vendor error with its normalized code.
type VendorError struct {
	Code     error       // Normalized code
	Original error       // Vendor error
	Details  interface{} // Vendor payload (opaque)
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("%v (vendor: %v)", e.Code, e.Original)
}

func (e *VendorError) Unwrap() error {
	return e.Code
}

// NormalizeVendorError maps vendor errors to normalized codes with the generic table.
func NormalizeVendorError(vendorErr error, vendorPayload interface{}) error {
	return NormalizeVendorErrorWithVendor(vendorErr, vendorPayload, "generic")
}

// NormalizeVendorErrorWithVendor maps vendor errors using a specific vendor table.
func NormalizeVendorErrorWithVendor(vendorErr error, vendorPayload interface{}, vendorID string) error {
	if vendorErr == nil {
		return nil
	}

	code := mapVendorErrorToCode(vendorErr.Error(), vendorID)

	return &VendorError{
		Code:     code,
		Original: vendorErr,
		Details:  vendorPayload,
	}
}

func mapVendorErrorToCode(msg string, vendorID string) error {
	vendorMap, exists := VendorErrorMappings[vendorID]
	if !exists {
		vendorMap = VendorErrorMappings["generic"]
	}

	upperMsg := strings.ToUpper(msg)

	for _, token := range vendorMap.Range {
		if strings.Contains(upperMsg, token) {
			return ErrInvalidRange
		}
	}

	for _, token := range vendorMap.Busy {
		if strings.Contains(upperMsg, token) {
			return ErrBusy
		}
	}

	for _, token := range vendorMap.Unavailable {
		if strings.Contains(upperMsg, token) {
			return ErrUnavailable
		}
	}

	return ErrInternal
}
