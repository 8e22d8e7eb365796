package model

import "encoding/json"

// Song is an opaque record describing one song in the remote library. It is
// passed through and serialized verbatim; this program never depends on its
// fields.
type Song = json.RawMessage
