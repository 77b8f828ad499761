package domain

import "fmt"

// OutcomeKind classifies how processing of one dropped file ended
type OutcomeKind int

const (
	OutcomePathUnreadable OutcomeKind = iota
	OutcomeDecodeFailed
	OutcomeEncodeFailed
	OutcomeNoOp
	OutcomeResized
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePathUnreadable:
		return "path-unreadable"
	case OutcomeDecodeFailed:
		return "decode-failed"
	case OutcomeEncodeFailed:
		return "encode-failed"
	case OutcomeNoOp:
		return "no-op"
	case OutcomeResized:
		return "resized"
	default:
		return "unknown"
	}
}

// Failed reports whether the kind represents an error
func (k OutcomeKind) Failed() bool {
	return k == OutcomePathUnreadable || k == OutcomeDecodeFailed || k == OutcomeEncodeFailed
}

// Outcome summarizes the fate of one dropped file.
// Values are never mutated once created.
type Outcome struct {
	Kind OutcomeKind
	// Path is the filesystem path, or the quoted raw host value for
	// OutcomePathUnreadable.
	Path string
	// Detail carries the decoder or writer error message, if any.
	Detail string
}

// String renders the outcome as the single log line shown to the user
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomePathUnreadable:
		return fmt.Sprintf("Could not parse path: %s", o.Path)
	case OutcomeDecodeFailed:
		return fmt.Sprintf("%s: processing failed - %s", o.Path, o.Detail)
	case OutcomeEncodeFailed:
		return fmt.Sprintf("%s: failed to save resized image - %s", o.Path, o.Detail)
	case OutcomeNoOp:
		return fmt.Sprintf("%s: no resizing needed (already multiple of 4)", o.Path)
	case OutcomeResized:
		return fmt.Sprintf("%s: resized successfully", o.Path)
	default:
		return fmt.Sprintf("%s: %s", o.Path, o.Detail)
	}
}

func PathUnreadable(raw string) Outcome {
	return Outcome{Kind: OutcomePathUnreadable, Path: fmt.Sprintf("%q", raw)}
}

func DecodeFailed(path string, err error) Outcome {
	return Outcome{Kind: OutcomeDecodeFailed, Path: path, Detail: err.Error()}
}

func EncodeFailed(path string, err error) Outcome {
	return Outcome{Kind: OutcomeEncodeFailed, Path: path, Detail: err.Error()}
}

func NoOp(path string) Outcome {
	return Outcome{Kind: OutcomeNoOp, Path: path}
}

func Resized(path string) Outcome {
	return Outcome{Kind: OutcomeResized, Path: path}
}
