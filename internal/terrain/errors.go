package terrain

import "errors"

// ErrInvalidParameter is returned for non-positive grid or kernel sizes,
// and for kernels that do not fit inside the noise grid.
var ErrInvalidParameter = errors.New("invalid parameter")
