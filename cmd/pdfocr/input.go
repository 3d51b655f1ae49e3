package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
)

var errNoFile = errors.New("no file selected")

// resolveInput returns arg, or asks for a path on in when arg is empty. The
// file must exist.
func resolveInput(arg string, in io.Reader, prompt io.Writer) (string, error) {
	path := strings.TrimSpace(arg)
	if path == "" {
		fmt.Fprint(prompt, "PDF file to convert: ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		path = strings.Trim(strings.TrimSpace(line), `"'`)
		if path == "" {
			return "", errNoFile
		}
	}

	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &apperr.DocumentError{Path: path, Err: fmt.Errorf("input PDF does not exist")}
		}
		return "", &apperr.DocumentError{Path: path, Err: err}
	}
	if st.IsDir() {
		return "", &apperr.DocumentError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	return path, nil
}
