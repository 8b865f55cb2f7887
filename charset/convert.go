package charset

import (
	"fmt"

	"golang.org/x/text/transform"
)

// BinaryDataToString converts a decoded payload in the named character set
// to a UTF-8 string. An empty name selects ISO-8859-1.
func BinaryDataToString(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("charset: converting from %s: %w", name, err)
	}
	return string(decoded), nil
}
