package domain

// RemoteDocumentRef points at a document on the court portal.
// The URL must pass the URL safety gate before any network I/O.
type RemoteDocumentRef struct {
	URL string
}

// DownloadedArtifact is a fully downloaded document on local disk.
// It is only produced after the whole body was written within bounds;
// the caller owns the file from then on.
type DownloadedArtifact struct {
	LocalPath string
	ByteSize  int64
}

// MaxExtractableBytes is the largest artifact text extraction will open.
const MaxExtractableBytes = 50 * 1024 * 1024

// ExtractionLimits bound text extraction. Zero fields take the defaults.
type ExtractionLimits struct {
	MaxPages      int
	MaxTextLength int
}

// WithDefaults fills zero fields with DefaultMaxPages and DefaultMaxTextLength.
func (l ExtractionLimits) WithDefaults() ExtractionLimits {
	if l.MaxPages <= 0 {
		l.MaxPages = DefaultMaxPages
	}
	if l.MaxTextLength <= 0 {
		l.MaxTextLength = DefaultMaxTextLength
	}
	return l
}

// Extraction describes the outcome of reading text out of an artifact.
type Extraction struct {
	Text         string
	Pages        int
	SkippedPages int
	Truncated    bool
}

// OrderDocument is the result of ingesting one order PDF.
type OrderDocument struct {
	Filename string
	Text     string
	Size     int64
}
