// Package ocr defines the OCR engine contract used by the page pipeline and a
// tesseract engine that shells out to the tesseract binary. Engines see one
// encoded raster at a time and return its plain text.
package ocr
