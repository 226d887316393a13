package downloader

import (
	"fmt"
	"strings"
)

type SourceType string

const (
	SourceTypeHuggingface SourceType = "huggingface"
	SourceTypeDirect      SourceType = "direct"
	SourceTypeFile        SourceType = "file"
)

// Source is a parsed artifact location: a HuggingFace repo file ("hf:"), a
// direct URL, or a pre-existing local file.
type Source struct {
	Type     SourceType
	Location string
	Original string
}

func ParseSource(source string) (*Source, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source string. Source is required")
	}

	s := &Source{Original: source}

	if strings.HasPrefix(source, "hf:") {
		s.Type = SourceTypeHuggingface
		s.Location = strings.TrimPrefix(source, "hf:")
	} else if strings.HasPrefix(source, "file:") {
		s.Type = SourceTypeFile
		s.Location = strings.TrimPrefix(source, "file:")
	} else if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		s.Type = SourceTypeDirect
		s.Location = source
	} else {
		return nil, fmt.Errorf("unsupported artifact source: %s", source)
	}

	return s, nil
}

// SplitRepoFile splits "owner/repo/path/to/file" into the repo ID and the
// file path inside it.
func (s *Source) SplitRepoFile() (string, string, error) {
	if s.Type != SourceTypeHuggingface {
		return "", "", fmt.Errorf("not a huggingface source: %s", s.Original)
	}

	parts := strings.SplitN(s.Location, "/", 3)
	if len(parts) < 3 {
		return "", "", fmt.Errorf("huggingface source must be hf:<owner>/<repo>/<file>: %s", s.Original)
	}

	return parts[0] + "/" + parts[1], parts[2], nil
}
