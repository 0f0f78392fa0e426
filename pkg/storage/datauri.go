package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

// decodeDataURI strips the data-URI header and decodes the base64 body.
func decodeDataURI(payload string) ([]byte, error) {
	_, encoded, ok := strings.Cut(payload, ";base64,")
	if !ok {
		return nil, errors.New("payload is not a base64 data URI")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	return data, nil
}
