package models

// PackageMetadata represents all annotated services found in a package
type PackageMetadata struct {
	PackageName string            // name of the Go package
	PackagePath string            // import path of the package
	Dir         string            // file system path to the package
	Services    []ServiceMetadata // annotated services in declaration order
}

// HasServices reports whether the package declares annotated services
func (p *PackageMetadata) HasServices() bool {
	return p != nil && len(p.Services) > 0
}
