// Package pkg holds the libraries behind the bridges client.
//
// # Overview
//
// bridges builds visualization documents for data structures and delivers
// them to a BRIDGES server, the web service that renders student
// assignments. The pkg directory is organized as follows:
//
//  1. [ds] - Visualizable data structures: elements, arrays, linked lists
//  2. [document] - The canonical JSON document form and the recursive merge
//  3. [pipeline] - Orchestration (assemble → deliver)
//  4. [publish] - Delivery targets: the BRIDGES server, files, NATS, Redis,
//     MongoDB and S3
//  5. [bridges] - The high-level client most programs use
//
// Supporting packages are [cache] (delivery deduplication), [config] (the
// TOML configuration file), [errors] (coded errors), [httputil] (retry and
// instrumented requests) and [observability] (hooks).
//
// # Example
//
//	list := ds.NewLinkedList[int](ds.Double)
//	list.Append(ds.NewElement(1, ds.WithColor(ds.ColorRed)))
//	list.Append(ds.NewElement(2))
//
//	b, err := bridges.NewFromEnv("1")
//	if err != nil {
//	    return err
//	}
//	b.SetTitle("Queue")
//	b.SetDataStructure(list)
//	result, err := b.Visualize(ctx)
//
// [ds]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/ds
// [document]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/document
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/pipeline
// [publish]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/publish
// [bridges]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/bridges
// [cache]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/bridges/pkg/observability
package pkg
