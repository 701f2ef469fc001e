package arbor

import "errors"

var (
	// ErrInvalidPath signals an index out of range, a bare integer step at a
	// node with more than one child slot, or a non-node value in the middle
	// of a path walk.
	ErrInvalidPath = errors.New("arbor: invalid path")
	// ErrNodeNotFound signals that an identity search did not locate the
	// requested node under the given root.
	ErrNodeNotFound = errors.New("arbor: node not found")
	// ErrNoDerivationPath signals that a finger was translated against a
	// root which is not reachable through the back-pointer chain from the
	// finger's own root.
	ErrNoDerivationPath = errors.New("arbor: no derivation path between roots")
	// ErrIdentityCollision signals two distinct reachable nodes carrying the
	// same serial number.
	ErrIdentityCollision = errors.New("arbor: serial number occurs twice")
	// ErrIllegalArguments signals invalid function parameters.
	ErrIllegalArguments = errors.New("arbor: illegal arguments")
)
