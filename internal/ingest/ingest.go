// Package ingest turns YAML files (or stdin) into typed Objects:
// file/directory traversal, multi-document decoding, and type resolution
// from each document's apiVersion/kind.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/util/yaml"

	"boatswain.sh/boatswain/pkg/object"
)

// Error wraps an input-time failure (missing name or type info, decode
// error, file I/O error) with the offending path.
type Error struct {
	Path  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest: %s: %v", e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// FromPaths reads every document from paths (files, directories walked
// recursively for .yaml/.yml, or "-" for stdin) and resolves each into an
// Object via its own apiVersion/kind.
func FromPaths(paths []string) ([]object.Object, error) {
	var files []string
	for _, p := range paths {
		if p == "-" {
			files = append(files, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, &Error{Path: p, Cause: err}
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, &Error{Path: p, Cause: err}
		}
	}
	sort.Strings(files)

	var objects []object.Object
	for _, f := range files {
		objs, err := fromFile(f)
		if err != nil {
			return nil, err
		}
		objects = append(objects, objs...)
	}
	return objects, nil
}

func fromFile(path string) ([]object.Object, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, &Error{Path: path, Cause: err}
		}
		defer f.Close()
		r = f
	}

	objs, err := FromReader(r)
	if err != nil {
		return nil, &Error{Path: path, Cause: err}
	}
	return objs, nil
}

// FromReader splits a multi-document YAML stream and resolves each
// non-empty document into an Object.
func FromReader(r io.Reader) ([]object.Object, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(r, 4096)

	var objects []object.Object
	for {
		var doc map[string]interface{}
		err := decoder.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		if len(doc) == 0 {
			continue
		}

		obj, err := object.New(doc, nil)
		if err != nil {
			return nil, fmt.Errorf("resolving object type: %w", err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}
