package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest reads a Request from a JSON or YAML file.
func LoadRequest(path string) (Request, error) {
	var req Request
	err := LoadRequestInto(path, &req)
	return req, err
}

// LoadRequestInto decodes the file at path over req. Fields absent from the
// file keep their value, so req can carry configured defaults.
func LoadRequestInto(path string, req *Request) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return decodeInto(f, strings.TrimPrefix(filepath.Ext(path), "."), req)
}

// DecodeRequest reads from r to decode a Request.
func DecodeRequest(r io.Reader, format string) (Request, error) {
	var req Request
	err := decodeInto(r, format, &req)
	return req, err
}

func decodeInto(r io.Reader, format string, req *Request) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.NewDecoder(r).Decode(req)
	case "json":
		return json.NewDecoder(r).Decode(req)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
