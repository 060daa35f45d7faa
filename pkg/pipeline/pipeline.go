// Package pipeline turns a data structure into a delivered visualization.
//
// The pipeline has two stages:
//
//  1. Assemble: encode the container and merge it under the assignment
//     metadata (title, map overlay, coordinate system)
//  2. Deliver: hand the finished document to a [publish.Publisher]
//
// Assemble is usable on its own, for example to preview a document:
//
//	doc, err := pipeline.Assemble(pipeline.Metadata{Title: "demo"}, list)
//
// A [Runner] executes both stages with logging and observability hooks:
//
//	runner := pipeline.NewRunner(publisher, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Metadata:    meta,
//	    Container:   list,
//	    Destination: publish.Destination{Assignment: "1.0", UserName: "alice"},
//	})
package pipeline

import (
	"reflect"
	"time"

	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/publish"
)

// Coordinate systems understood by the rendering service.
const (
	CoordCartesian       = "cartesian"
	CoordAlbersUSA       = "albersusa"
	CoordEquirectangular = "equirectangular"
	CoordWindow          = "window"
)

// ValidCoordSystems is the set of supported coordinate systems.
var ValidCoordSystems = map[string]bool{
	CoordCartesian:       true,
	CoordAlbersUSA:       true,
	CoordEquirectangular: true,
	CoordWindow:          true,
}

// ValidateCoordSystem checks that s is a supported coordinate system.
func ValidateCoordSystem(s string) error {
	if !ValidCoordSystems[s] {
		return errs.New(errs.ErrCodeInvalidInput, "unknown coordinate system %q", s)
	}
	return nil
}

// Metadata is the assignment-level part of a visualization document.
type Metadata struct {
	Title           string `json:"title" toml:"title"`
	MapOverlay      bool   `json:"map_overlay" toml:"map_overlay"`
	CoordSystemType string `json:"coord_system_type" toml:"coord_system_type"`
}

// DefaultMetadata returns an untitled cartesian visualization.
func DefaultMetadata() Metadata {
	return Metadata{CoordSystemType: CoordCartesian}
}

// Document encodes m as {title, map_overlay, coord_system_type}.
func (m Metadata) Document() document.Document {
	return document.Document{
		"title":             m.Title,
		"map_overlay":       m.MapOverlay,
		"coord_system_type": m.CoordSystemType,
	}
}

// Container is a data structure that can be visualized.
type Container interface {
	// Visual returns the type tag stored under "visual".
	Visual() string

	// Document encodes the container. It fails when a node value cannot be
	// encoded.
	Document() (document.Document, error)
}

// Assemble merges the metadata document with the container's document.
// Container keys win on conflict. A nil container, including a typed nil
// pointer, is rejected as invalid input.
func Assemble(meta Metadata, c Container) (document.Document, error) {
	if isNil(c) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no data structure to visualize")
	}
	body, err := c.Document()
	if err != nil {
		return nil, err
	}
	return document.MergeDocuments(meta.Document(), body), nil
}

func isNil(c Container) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Options configures one pipeline run.
type Options struct {
	Metadata    Metadata
	Container   Container
	Destination publish.Destination
}

// Validate checks the options before any work is done.
func (o Options) Validate() error {
	if o.Container == nil {
		return errs.New(errs.ErrCodeInvalidInput, "no data structure to visualize")
	}
	if o.Metadata.CoordSystemType != "" {
		if err := ValidateCoordSystem(o.Metadata.CoordSystemType); err != nil {
			return err
		}
	}
	return o.Destination.Validate()
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the assembled document that was delivered.
	Document document.Document

	// Receipt describes the delivery.
	Receipt publish.Receipt

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	LinkCount    int
	Bytes        int
	AssembleTime time.Duration
	DeliverTime  time.Duration
}

// Counts returns the number of nodes and links in an assembled document.
func Counts(doc document.Document) (nodes, links int) {
	if v, ok := doc["nodes"].([]any); ok {
		nodes = len(v)
	}
	if v, ok := doc["links"].([]any); ok {
		links = len(v)
	}
	return nodes, links
}
