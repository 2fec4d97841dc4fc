package models

import "github.com/gmapkit/gmapwire/pkg/wiring"

// ServiceMetadata is an annotated type found in a package
type ServiceMetadata struct {
	ID          string       // container id, defaults to the qualified type name
	TypeName    string       // name of the Go type
	PackagePath string       // import path of the declaring package
	FileName    string       // file declaring the type
	Line        int          // line of the type declaration
	Tags        []wiring.Tag // listener and subscriber tags in declaration order
}

// ClassName returns the qualified type name (import/path.TypeName)
func (s ServiceMetadata) ClassName() string {
	return s.PackagePath + "." + s.TypeName
}

// Descriptor converts the metadata into a container service
func (s ServiceMetadata) Descriptor() wiring.ServiceDescriptor {
	tags := make([]wiring.Tag, len(s.Tags))
	copy(tags, s.Tags)

	return wiring.ServiceDescriptor{
		ID:    s.ID,
		Class: s.ClassName(),
		Tags:  tags,
	}
}
