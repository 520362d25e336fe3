package fetch

import "fmt"

// FailureKind classifies why one fetch did not produce a stored object.
type FailureKind string

const (
	FailureStatus     FailureKind = "status"
	FailureNetwork    FailureKind = "network"
	FailureUnexpected FailureKind = "unexpected"
)

// Outcome is the result of one Fetch call. Exactly one of Name or Message is set.
type Outcome struct {
	SourceURL  string
	Name       string
	SizeBytes  int64
	Failure    FailureKind
	StatusCode int
	Message    string
}

// OK reports whether the fetch stored an object.
func (o Outcome) OK() bool {
	return o.Failure == "" && o.Name != ""
}

func succeeded(sourceURL, name string, size int64) Outcome {
	return Outcome{SourceURL: sourceURL, Name: name, SizeBytes: size}
}

func statusFailure(sourceURL string, code int) Outcome {
	return Outcome{
		SourceURL:  sourceURL,
		Failure:    FailureStatus,
		StatusCode: code,
		Message:    fmt.Sprintf("Lỗi HTTP %d khi tải %s", code, sourceURL),
	}
}

func networkFailure(sourceURL string, cause error) Outcome {
	return Outcome{
		SourceURL: sourceURL,
		Failure:   FailureNetwork,
		Message:   fmt.Sprintf("Lỗi kết nối khi tải %s: %v", sourceURL, cause),
	}
}

func unexpectedFailure(sourceURL string, cause error) Outcome {
	return Outcome{
		SourceURL: sourceURL,
		Failure:   FailureUnexpected,
		Message:   fmt.Sprintf("Lỗi không xác định khi tải %s: %v", sourceURL, cause),
	}
}
