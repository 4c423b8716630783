package id

import "github.com/teris-io/shortid"

// ShortId generates a short url-safe id, e.g. for invitation codes.
func ShortId() string {
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}
