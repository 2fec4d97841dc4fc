package models

// GeneratedFile represents a generated registration file
type GeneratedFile struct {
	PackageName string // name of the package
	PackagePath string // import path of the package
	FilePath    string // path where the file should be written
	Content     string // generated Go code content
	Entries     int    // registration entries written to the file
}
