package source

type (
	// FileID uniquely identifies a template file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a template file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, inline markup).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single template file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a template file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
