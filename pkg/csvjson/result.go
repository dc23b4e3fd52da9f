package csvjson

// Result is the outcome of a conversion: either JSON text or an *Error,
// never both.
type Result struct {
	json []byte
	err  *Error
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool {
	return r.err == nil
}

// JSON returns the JSON document, or nil on failure.
func (r Result) JSON() []byte {
	return r.json
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Failure returns the typed failure, or nil on success.
func (r Result) Failure() *Error {
	return r.err
}

// Text returns the JSON document on success and the diagnostic message on
// failure. Callers that need to tell the two apart must use OK.
func (r Result) Text() string {
	if r.err != nil {
		return r.err.Error()
	}
	return string(r.json)
}
