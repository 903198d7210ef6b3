package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguagesOrder(t *testing.T) {
	assert.Equal(t, []string{"por", "eng"}, Languages)
}

func TestNewTesseract_CopiesLanguages(t *testing.T) {
	tess := NewTesseract()
	tess.languages[0] = "deu"
	assert.Equal(t, "por", Languages[0])
}
