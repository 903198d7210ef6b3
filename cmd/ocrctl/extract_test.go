package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCounter struct {
	pages int
	err   error
	asked []string
}

func (s *stubCounter) PageCount(path string) (int, error) {
	s.asked = append(s.asked, path)
	return s.pages, s.err
}

func TestProgressLabel(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		counter     *stubCounter
		want        string
		wantAsked   bool
	}{
		{name: "pdf", contentType: "application/pdf", counter: &stubCounter{pages: 3}, want: " recognizing doc.pdf (3 pages)", wantAsked: true},
		{name: "unopenable pdf", contentType: "application/pdf", counter: &stubCounter{err: errors.New("open pdf: no objects found")}, want: " recognizing doc.pdf (application/pdf)", wantAsked: true},
		{name: "image", contentType: "image/png", counter: &stubCounter{pages: 9}, want: " recognizing doc.pdf (image/png)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progressLabel("doc.pdf", tt.contentType, tt.counter))
			assert.Equal(t, tt.wantAsked, len(tt.counter.asked) == 1)
		})
	}
}

func TestBaseMediaType(t *testing.T) {
	assert.Equal(t, "text/plain", baseMediaType("text/plain; charset=utf-8"))
	assert.Equal(t, "application/pdf", baseMediaType("application/pdf"))
}
