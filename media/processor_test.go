package media

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxSize int
		wantW   int
		wantH   int
		wantErr bool
	}{
		{name: "landscape shrinks", w: 4000, h: 3000, maxSize: 300, wantW: 300, wantH: 225},
		{name: "portrait shrinks", w: 3000, h: 4000, maxSize: 300, wantW: 225, wantH: 300},
		{name: "already within bounds", w: 200, h: 100, maxSize: 300, wantW: 200, wantH: 100},
		{name: "exact fit", w: 300, h: 300, maxSize: 300, wantW: 300, wantH: 300},
		{name: "extreme ratio clamps to 1", w: 10000, h: 1, maxSize: 100, wantW: 100, wantH: 1},
		{name: "zero dimensions", w: 0, h: 10, maxSize: 300, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH, err := fitWithin(image.Rect(0, 0, tt.w, tt.h), tt.maxSize)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantW, gotW)
			require.Equal(t, tt.wantH, gotH)
		})
	}
}

func TestGenerateThumbnailSavesJpeg(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypeThumbnail: "thumbnails",
	})
	require.NoError(t, err)
	proc := NewProcessor(store)

	src := image.NewRGBA(image.Rect(0, 0, 800, 600))
	relPath, err := proc.GenerateThumbnail(src, "submissions/original.jpg", 300)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(relPath, "thumbnails/"))
	require.True(t, strings.HasSuffix(relPath, ThumbnailFileExtension))

	reader, info, err := store.Get(relPath)
	require.NoError(t, err)
	defer reader.Close()
	require.Greater(t, info.Size(), int64(0))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypeSubmission: "submissions",
	})
	require.NoError(t, err)

	_, err = store.Save(AssetTypeSubmission, "../escape.jpg", strings.NewReader("data"))
	require.Error(t, err)

	_, err = store.GetFullPath("../../etc/passwd")
	require.Error(t, err)
}

func TestIsSupportedImage(t *testing.T) {
	require.True(t, IsSupportedImage("IMG_0001.JPG"))
	require.True(t, IsSupportedImage("photo.png"))
	require.True(t, IsSupportedImage("anim.gif"))
	require.False(t, IsSupportedImage("clip.mp4"))
	require.False(t, IsSupportedImage("noextension"))
}
