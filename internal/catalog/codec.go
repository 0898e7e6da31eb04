package catalog

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// LinkFields is the decoded form of the catalog's obfuscated link payload.
// MP4Link is always required; HLSLink is present only when the provider
// offers an adaptive variant.
type LinkFields struct {
	MP4Link string `json:"MP4Link"`
	HLSLink string `json:"HLSLink"`
}

// minPayloadLength is the shortest payload the splice transform can address.
const minPayloadLength = 13

// DecodeLinks reverses the catalog's link obfuscation. The payload is
// re-spliced as chars [0:10) + the final char + chars [12:len-1), then
// base64-decoded into a JSON document carrying the media URLs.
//
// The index splice is a bit-exact contract reverse-engineered from the
// provider; the slicing must not be altered.
func DecodeLinks(encoded string) (LinkFields, error) {
	var fields LinkFields
	n := len(encoded)
	if n < minPayloadLength {
		return fields, fmt.Errorf("%w: %d chars", ErrPayloadTooShort, n)
	}
	spliced := encoded[0:10] + encoded[n-1:n] + encoded[12:n-1]
	raw, err := base64.StdEncoding.DecodeString(spliced)
	if err != nil {
		return fields, fmt.Errorf("%w: decode base64: %v", ErrMalformedPayload, err)
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fields, fmt.Errorf("%w: parse links: %v", ErrMalformedPayload, err)
	}
	return fields, nil
}
