// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrEmptyQuery is returned for a blank search query before any request
// is made. The client and the session both return it.
var ErrEmptyQuery = errors.New("query cannot be empty")
