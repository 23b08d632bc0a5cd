package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, contentType string, data []byte) (string, error) {
	if f.failOn != "" && strings.Contains(objectPath, f.failOn) {
		return "", errors.New("bucket unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[objectPath] = data
	return "https://cdn.test/" + objectPath + "?type=" + contentType, nil
}

func writeIcon(t *testing.T, dir, slug string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".png"), []byte("png:"+slug), 0o600))
}

func TestUploadBadgeIcons(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "bem-vindo")
	writeIcon(t, dir, "mestre-dos-pontos")

	up := &fakeUploader{}
	urls, err := UploadBadgeIcons(context.Background(), up, dir, []string{"bem-vindo", "mestre-dos-pontos", "sem-icone", ""}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Len(t, urls, 2)
	assert.Equal(t, "https://cdn.test/badges/icons/bem-vindo.png?type=image/png", urls["bem-vindo"])
	assert.Contains(t, urls, "mestre-dos-pontos")
	assert.NotContains(t, urls, "sem-icone")
	assert.Equal(t, []byte("png:bem-vindo"), up.objects["badges/icons/bem-vindo.png"])
}

func TestUploadBadgeIconsFailure(t *testing.T) {
	dir := t.TempDir()
	writeIcon(t, dir, "bem-vindo")
	writeIcon(t, dir, "cliente-frequente")

	up := &fakeUploader{failOn: "cliente-frequente"}
	urls, err := UploadBadgeIcons(context.Background(), up, dir, []string{"bem-vindo", "cliente-frequente"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cliente-frequente")
	assert.Nil(t, urls)
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("bucket", "badges/icons/a.png", "tok")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/bucket/o/badges%2Ficons%2Fa.png?alt=media&token=tok", got)
}
