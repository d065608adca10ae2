package domain

// SignedRequest carries the pieces of an inbound HTTP request that
// participate in HMAC verification. Body holds the exact raw payload bytes;
// an empty body contributes an empty string to the canonical form.
type SignedRequest struct {
	Method        string // uppercase HTTP verb
	Path          string // request path, query string excluded
	Timestamp     string // X-Qiniu-Date header value, verbatim
	Body          string
	Authorization string // "QINIU <access_key>:<signature>"
}
