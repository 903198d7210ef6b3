// Package ocr wraps the text recognition engine.
//
// The production engine is Tesseract via gosseract, which needs libtesseract
// and the por and eng traineddata files at runtime. On Debian/Ubuntu:
//
//	apt-get install tesseract-ocr tesseract-ocr-por libtesseract-dev
package ocr

// Languages is the fixed recognition profile, in priority order.
var Languages = []string{"por", "eng"}
