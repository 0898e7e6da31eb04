package catalog

import "errors"

var (
	// ErrPayloadTooShort indicates an obfuscated link payload below the
	// minimum length the splice transform requires.
	ErrPayloadTooShort = errors.New("obfuscated payload too short")

	// ErrMalformedPayload indicates an obfuscated link payload that survived
	// the splice but failed base64 or JSON decoding.
	ErrMalformedPayload = errors.New("malformed link payload")

	// ErrLoginRequired indicates a watch page without a video player section,
	// which the provider serves when the session is not authenticated.
	ErrLoginRequired = errors.New("video player not found, login may be required")

	// ErrTransport indicates a non-success HTTP status from the catalog.
	ErrTransport = errors.New("catalog request failed")

	// ErrRedirectLoop indicates the premium redirect chain exceeded the
	// configured depth bound.
	ErrRedirectLoop = errors.New("redirect depth exceeded")

	// ErrNoLinks indicates an AJAX response without playback links, commonly
	// because the account tier does not grant them.
	ErrNoLinks = errors.New("no playback links in response")

	// ErrUnexpectedFormat indicates an AJAX response shape outside the two
	// known variants.
	ErrUnexpectedFormat = errors.New("unexpected ajax response format")
)
