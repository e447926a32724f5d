// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package approval

import "errors"

// ErrLengthMismatch is raised when an approval bitfield and an
// assignment-derived bitfield of differing lengths are compared. This
// indicates a programming error in the caller; the core does not attempt
// to recover from it.
var ErrLengthMismatch = errors.New("approval: assignment and approval bitfield lengths do not match")
