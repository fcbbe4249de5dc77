package platform

import "encoding/json"

// Vendor error bodies are wildly inconsistent: the Graph API nests the
// message under "error", LinkedIn returns a flat "message" or an OAuth-style
// "error_description", and some endpoints put a bare string in "error".
// The extractors below are tried in fixed precedence order; the first
// non-empty value wins. The order must stay identical across adapters so
// the same failure reads the same everywhere.
var errorExtractors = []func(body map[string]interface{}) string{
	func(b map[string]interface{}) string {
		s, _ := b["message"].(string)
		return s
	},
	func(b map[string]interface{}) string {
		s, _ := b["error_description"].(string)
		return s
	},
	func(b map[string]interface{}) string {
		if e, ok := b["error"].(map[string]interface{}); ok {
			s, _ := e["message"].(string)
			return s
		}
		return ""
	},
	func(b map[string]interface{}) string {
		s, _ := b["error"].(string)
		return s
	},
}

// vendorMessage digs a human-readable message out of a raw vendor error
// body, falling back when the body is unparseable or carries no message.
func vendorMessage(body []byte, fallback string) string {
	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fallback
	}
	for _, extract := range errorExtractors {
		if msg := extract(decoded); msg != "" {
			return msg
		}
	}
	return fallback
}

// apiError resolves the error message for a non-2xx vendor response.
// Well-known status codes get a fixed message regardless of body content;
// anything else falls through to the vendor-supplied message.
func apiError(status int, fixed map[int]string, body []byte, fallback string) string {
	if msg, ok := fixed[status]; ok {
		return msg
	}
	return vendorMessage(body, fallback)
}
