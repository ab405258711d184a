package detect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avvvet/chip-services/internal/chipsvc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestTranslateLabelsDropsUnknown(t *testing.T) {
	got := TranslateLabels(map[string]int64{
		"Red Chip":    7,
		"Green Chip":  3,
		"Purple Chip": 2,
		"red":         1,
	})
	assert.Equal(t, map[models.Color]int64{models.Red: 7, models.Green: 3}, got)
}

func TestClientPostsMultipartAndKeepsActiveColors(t *testing.T) {
	var gotFile []byte
	var gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict/", r.URL.Path)

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotFile, _ = io.ReadAll(f)
		gotName = hdr.Filename

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"counts_by_color": map[string]int{"Red Chip": 7, "Green Chip": 3},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/predict/", time.Second)
	got, err := c.Detect(context.Background(), pngHeader, "table.png", []models.Color{models.Red, models.Blue})
	require.NoError(t, err)

	assert.Equal(t, map[models.Color]int64{models.Red: 7}, got)
	assert.Equal(t, pngHeader, gotFile)
	assert.Equal(t, "table.png", gotName)
}

func TestClientRejectsNonImages(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/predict/", time.Second)
	_, err := c.Detect(context.Background(), []byte("plain text"), "notes.txt", []models.Color{models.Red})
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestClientReportsServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Detect(context.Background(), pngHeader, "", []models.Color{models.Red})
	assert.Error(t, err)
}

func TestMockCountsOnlyActiveColors(t *testing.T) {
	m := NewMock()
	active := []models.Color{models.Red, models.White}

	for i := 0; i < 50; i++ {
		got, err := m.Detect(context.Background(), nil, "", active)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, c := range active {
			assert.GreaterOrEqual(t, got[c], int64(1))
			assert.LessOrEqual(t, got[c], int64(10))
		}
	}
}
