package domain

import "time"

// AcceptedMIMEType is the only document format the service indexes.
const AcceptedMIMEType = "application/pdf"

// UploadStage identifies one step of the upload sequence.
type UploadStage int

const (
	// StageIdle means no upload is running.
	StageIdle UploadStage = iota
	// StageTransmitting covers raw byte transfer (0-30%).
	StageTransmitting
	// StageExtracting is content extraction (50%).
	StageExtracting
	// StageEmbedding is embedding generation (75%).
	StageEmbedding
	// StageIndexing is index construction (90%).
	StageIndexing
	// StageFinalizing is the last step (100%).
	StageFinalizing
)

// String returns the string representation of the stage.
func (s UploadStage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageTransmitting:
		return "transmitting"
	case StageExtracting:
		return "extracting"
	case StageEmbedding:
		return "embedding"
	case StageIndexing:
		return "indexing"
	case StageFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// StageSpec pairs a stage with its progress floor and label.
type StageSpec struct {
	Stage UploadStage
	// Percent is the progress reached when the stage begins.
	Percent int
	// Label is shown to the user.
	Label string
	// Pause is the fraction of the pacing delay spent in the stage.
	Pause float64
}

// TransmissionCeiling caps transfer progress until the server acknowledges.
const TransmissionCeiling = 30

// UploadStages returns the post-transmission stages in execution order.
func UploadStages() []StageSpec {
	return []StageSpec{
		{Stage: StageExtracting, Percent: 50, Label: "Extracting semantic content...", Pause: 1},
		{Stage: StageEmbedding, Percent: 75, Label: "Generating high-dimensional embeddings...", Pause: 1},
		{Stage: StageIndexing, Percent: 90, Label: "Building vector search index...", Pause: 1},
		{Stage: StageFinalizing, Percent: 100, Label: "Finalizing analysis...", Pause: 2.0 / 3.0},
	}
}

// TransmittingLabel is shown while bytes are on the wire.
const TransmittingLabel = "Initializing secure upload..."

// UploadProgress is the transient state of an in-flight upload.
type UploadProgress struct {
	// Percent is in [0,100] and never decreases within one attempt.
	Percent int

	// Stage is the current step.
	Stage UploadStage

	// Label is the human-readable stage description.
	Label string

	// Active is true while the attempt is running.
	Active bool

	// LastError is the message from the last failed attempt.
	LastError string
}

// ProgressListener observes upload progress snapshots.
type ProgressListener func(UploadProgress)

// FileInfo describes a local file about to be uploaded.
type FileInfo struct {
	// Path is the local path.
	Path string

	// Name is the base file name sent to the service.
	Name string

	// Size is the size in bytes.
	Size int64

	// MIMEType is the sniffed content type.
	MIMEType string

	// PageCount is the number of pages when the file parses as a PDF.
	PageCount int

	// ModifiedAt is the file's modification time.
	ModifiedAt time.Time
}
