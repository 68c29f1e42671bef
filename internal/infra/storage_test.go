package infra

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"][0]
}

func TestLocalStorage_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:8000/")

	url, err := s.Save(multipartFile(t, "photo.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8000/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored := filepath.Join(dir, filepath.Base(url))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	require.NoError(t, s.Remove(url))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, s.Remove(url))
}

func TestLocalStorage_RejectsNonImage(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "http://localhost:8000")
	_, err := s.Save(multipartFile(t, "script.sh", []byte("#!/bin/sh")))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestLocalStorage_RemoveIgnoresForeignURL(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.png")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	s := NewLocalStorage(dir, "http://localhost:8000")
	assert.NoError(t, s.Remove("https://cdn.example.com/uploads/keep.png"))
	_, err := os.Stat(keep)
	assert.NoError(t, err)
}
