package downloader

import "testing"

func TestParseSource(t *testing.T) {
	s, err := ParseSource("https://download.pytorch.org/models/resnet18-f37072fd.pth")
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if s.Type != SourceTypeDirect {
		t.Fatalf("type = %q, want direct", s.Type)
	}

	s, err = ParseSource("hf:pytorch/resnet18/resnet18.pth")
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if s.Type != SourceTypeHuggingface {
		t.Fatalf("type = %q, want huggingface", s.Type)
	}

	repo, file, err := s.SplitRepoFile()
	if err != nil {
		t.Fatalf("SplitRepoFile failed: %v", err)
	}
	if repo != "pytorch/resnet18" || file != "resnet18.pth" {
		t.Fatalf("repo, file = %q, %q", repo, file)
	}

	s, err = ParseSource("file:/tmp/resnet18.pth")
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if s.Type != SourceTypeFile || s.Location != "/tmp/resnet18.pth" {
		t.Fatalf("unexpected source %+v", s)
	}
}

func TestParseSourceRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "ftp://example.com/model.pt", "resnet18.pth"} {
		if _, err := ParseSource(bad); err == nil {
			t.Errorf("ParseSource(%q) should fail", bad)
		}
	}
}

func TestSplitRepoFileRequiresThreeParts(t *testing.T) {
	s, err := ParseSource("hf:pytorch/resnet18")
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}

	if _, _, err := s.SplitRepoFile(); err == nil {
		t.Fatal("expected error for source without a file component")
	}
}
