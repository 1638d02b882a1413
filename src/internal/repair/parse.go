// FILE: jsonsieve/src/internal/repair/parse.go
package repair

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse strictly decodes a single JSON value.
// Numbers are kept as json.Number and anything after the value is an error.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unexpected end of JSON input")
		}
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
	}

	return data, nil
}
