package httpserver

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_listing/internal/domain"
)

var png = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{1}, 32)...)

func multipartReq(t *testing.T, files ...[]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Grand"))
	for i, f := range files {
		fw, err := mw.CreateFormFile(imagesField, fmt.Sprintf("img%d.png", i))
		require.NoError(t, err)
		_, err = fw.Write(f)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestStage_SavesImagesAndFields(t *testing.T) {
	dir := t.TempDir()
	values, files, err := Stager{Dir: dir}.Stage(httptest.NewRecorder(), multipartReq(t, png, png))
	require.NoError(t, err)
	assert.Equal(t, "Grand", values["name"])
	require.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, strings.HasSuffix(f.Path, ".png"), f.Path)
		b, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, png, b)
	}
	sweep(files)
	ents, _ := os.ReadDir(dir)
	assert.Empty(t, ents)
}

func TestStage_Limits(t *testing.T) {
	cases := []struct {
		name  string
		files [][]byte
		want  *domain.ValidationError
	}{
		{"too many files", slicesOf(png, maxUploadFiles+1), errTooManyFiles},
		{"too large", [][]byte{append(append([]byte{}, png...), make([]byte, maxUploadBytes)...)}, errFileTooLarge},
		{"not an image", [][]byte{[]byte("GIF89a not allowed either")}, errBadImageType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			_, files, err := Stager{Dir: dir}.Stage(httptest.NewRecorder(), multipartReq(t, tc.files...))
			assert.Equal(t, error(tc.want), err)
			assert.Nil(t, files)
			ents, _ := os.ReadDir(dir)
			assert.Empty(t, ents)
		})
	}
}

func TestStage_NotMultipart(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "application/json")
	_, _, err := Stager{Dir: t.TempDir()}.Stage(httptest.NewRecorder(), r)
	assert.Equal(t, error(errBadMultipart), err)
	assert.False(t, isMultipart(r))
}

func slicesOf(b []byte, n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
