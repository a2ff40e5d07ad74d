// Package catalog is the static registry mapping dataset codes to their
// descriptors: display name, optional source URL, local target path and the
// normalized output path.
//
// A Catalog is built once (from the demo table or a YAML file) and handed to
// the pipeline by pointer; it exposes no mutators.
package catalog
