package client

import (
	"encoding/json"
	"mime"
	"strconv"
	"strings"
)

// Kind says how a response body was decoded.
type Kind int

const (
	// KindBytes is an undecoded body, e.g. an encoded image.
	KindBytes Kind = iota
	// KindJSON is a decoded application/json body.
	KindJSON
	// KindBool, KindInt, KindFloat and KindString are scalar text bodies.
	KindBool
	KindInt
	KindFloat
	KindString
	// KindFloats is a multiband scalar like {21.5, 18, 3}.
	KindFloats
)

// Result is a decoded WCPS response. Raw always holds the full body; the
// field matching Kind holds the decoded value.
type Result struct {
	Kind        Kind
	ContentType string
	Raw         []byte

	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Floats []float64
	JSON   any
}

func decode(body []byte, contentType string) Result {
	r := Result{Kind: KindBytes, ContentType: contentType, Raw: body}

	mediaType := contentType
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = mt
	}

	switch {
	case mediaType == "application/json":
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			r.Kind = KindJSON
			r.JSON = v
		}
	case strings.HasPrefix(mediaType, "text/"):
		decodeScalar(&r, strings.TrimSpace(string(body)))
	}
	return r
}

// decodeScalar mirrors how rasdaman prints scalar results: booleans as
// t/f, numbers in plain decimal, multiband values brace-wrapped and comma
// separated.
func decodeScalar(r *Result, text string) {
	switch strings.ToLower(text) {
	case "t", "true":
		r.Kind = KindBool
		r.Bool = true
		return
	case "f", "false":
		r.Kind = KindBool
		r.Bool = false
		return
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		r.Kind = KindInt
		r.Int = n
		return
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		r.Kind = KindFloat
		r.Float = f
		return
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		parts := strings.Split(text[1:len(text)-1], ",")
		floats := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				floats = nil
				break
			}
			floats = append(floats, f)
		}
		if floats != nil {
			r.Kind = KindFloats
			r.Floats = floats
			return
		}
	}

	r.Kind = KindString
	r.Str = text
}
