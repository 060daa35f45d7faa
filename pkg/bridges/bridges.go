// Package bridges is the client entry point: it collects assignment
// credentials, visualization metadata and a data structure, and delivers the
// assembled document.
//
//	b := bridges.New("1.0", "alice", apiKey)
//	b.SetTitle("My list")
//
//	l := ds.NewLinkedList[string](ds.Double)
//	l.Append(ds.NewElement("a", ds.WithColor(ds.ColorRed)))
//	l.Append(ds.NewElement("b"))
//	b.SetDataStructure(l)
//
//	result, err := b.Visualize(ctx)
//
// Without further configuration the document is posted to the live BRIDGES
// server; [Bridges.SetServer], [Bridges.SetServerURL] and
// [Bridges.SetPublisher] select other destinations.
package bridges

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bridges/pkg/config"
	"github.com/matzehuels/bridges/pkg/document"
	errs "github.com/matzehuels/bridges/pkg/errors"
	"github.com/matzehuels/bridges/pkg/pipeline"
	"github.com/matzehuels/bridges/pkg/publish"
	"github.com/matzehuels/bridges/pkg/publish/server"
)

// Coordinate systems accepted by SetCoordSystemType.
const (
	Cartesian       = pipeline.CoordCartesian
	AlbersUSA       = pipeline.CoordAlbersUSA
	Equirectangular = pipeline.CoordEquirectangular
	Window          = pipeline.CoordWindow
)

// Credential environment variables read by NewFromEnv.
const (
	EnvUserName = config.EnvUserName
	EnvAPIKey   = config.EnvAPIKey
)

// Metadata is the assignment-level part of a document.
type Metadata = pipeline.Metadata

// Container is a data structure that can be visualized; *ds.Array and
// *ds.LinkedList implement it.
type Container = pipeline.Container

// Assemble merges the metadata document with the container's document.
// Container keys win on conflict.
func Assemble(meta Metadata, c Container) (document.Document, error) {
	return pipeline.Assemble(meta, c)
}

// Bridges holds one visualization being prepared for an assignment.
type Bridges struct {
	assignment string
	userName   string
	apiKey     string
	server     server.Server
	serverURL  string

	meta      pipeline.Metadata
	container pipeline.Container
	publisher publish.Publisher
	logger    *log.Logger
}

// New creates a client for assignment, targeting the live server with
// cartesian coordinates and an empty title.
func New(assignment, userName, apiKey string) *Bridges {
	return &Bridges{
		assignment: assignment,
		userName:   userName,
		apiKey:     apiKey,
		server:     server.Live,
		meta:       pipeline.DefaultMetadata(),
	}
}

// NewFromEnv creates a client with credentials from BRIDGES_USER_NAME and
// BRIDGES_API_KEY.
func NewFromEnv(assignment string) (*Bridges, error) {
	user := os.Getenv(EnvUserName)
	if user == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s is not set", EnvUserName)
	}
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "%s is not set", EnvAPIKey)
	}
	return New(assignment, user, key), nil
}

// Assignment returns the assignment number.
func (b *Bridges) Assignment() string { return b.assignment }

// UserName returns the account name.
func (b *Bridges) UserName() string { return b.userName }

// Destination returns where Visualize delivers.
func (b *Bridges) Destination() publish.Destination {
	return publish.Destination{Assignment: b.assignment, UserName: b.userName}
}

// SetServer selects a well-known server and clears any custom URL.
func (b *Bridges) SetServer(s server.Server) {
	b.server = s
	b.serverURL = ""
}

// SetServerURL targets a server by base URL.
func (b *Bridges) SetServerURL(url string) { b.serverURL = url }

// SetPublisher replaces the server publisher entirely.
func (b *Bridges) SetPublisher(p publish.Publisher) { b.publisher = p }

// SetLogger sets the logger used by Visualize.
func (b *Bridges) SetLogger(l *log.Logger) { b.logger = l }

// SetTitle sets the visualization title.
func (b *Bridges) SetTitle(title string) { b.meta.Title = title }

// SetMapOverlay toggles drawing the data structure over a map.
func (b *Bridges) SetMapOverlay(on bool) { b.meta.MapOverlay = on }

// SetCoordSystemType sets the coordinate system. Unknown values are
// rejected by Visualize.
func (b *Bridges) SetCoordSystemType(s string) { b.meta.CoordSystemType = s }

// Metadata returns the current visualization metadata.
func (b *Bridges) Metadata() Metadata { return b.meta }

// SetDataStructure sets the container to visualize.
func (b *Bridges) SetDataStructure(c Container) { b.container = c }

// Document assembles the document Visualize would deliver.
func (b *Bridges) Document() (document.Document, error) {
	return Assemble(b.meta, b.container)
}

// Visualize assembles the document and delivers it.
func (b *Bridges) Visualize(ctx context.Context) (*pipeline.Result, error) {
	p, err := b.resolvePublisher()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(p, b.logger).Execute(ctx, pipeline.Options{
		Metadata:    b.meta,
		Container:   b.container,
		Destination: b.Destination(),
	})
}

func (b *Bridges) resolvePublisher() (publish.Publisher, error) {
	if b.publisher != nil {
		return b.publisher, nil
	}
	if b.serverURL != "" {
		return server.New(b.serverURL, b.apiKey)
	}
	return server.NewForServer(b.server, b.apiKey)
}
