package media

import (
	"fmt"
	"image"
	"io"
	"log"
	"math"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	ThumbnailJpegQuality   = 90
	ThumbnailFileExtension = ".jpg"

	BadgeIconMaxSize     = 256
	BadgeIconJpegQuality = 85
)

// Processor handles media transformations for contest photos and badge
// icons. It relies on a Store implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// GenerateThumbnail creates a thumbnail where the longest side matches
// maxSize and saves it under a fresh UUID filename. Returns the relative
// path of the saved thumbnail.
func (p *Processor) GenerateThumbnail(originalImg image.Image, originalRelPath string, maxSize int) (string, error) {
	newWidth, newHeight, err := fitWithin(originalImg.Bounds(), maxSize)
	if err != nil {
		return "", err
	}

	thumb := imaging.Resize(originalImg, newWidth, newHeight, imaging.Lanczos)
	return p.encodeAndSave(thumb, AssetTypeThumbnail, ThumbnailJpegQuality, originalRelPath)
}

// ProcessBadgeIcon resizes an uploaded badge icon and saves it. Returns the
// relative path of the saved icon.
func (p *Processor) ProcessBadgeIcon(fileData io.Reader) (string, error) {
	img, format, err := image.Decode(fileData)
	if err != nil {
		return "", fmt.Errorf("failed to decode uploaded badge icon: %w", err)
	}
	log.Printf("processor: Decoded uploaded badge icon (format: %s)", format)

	newWidth, newHeight, err := fitWithin(img.Bounds(), BadgeIconMaxSize)
	if err != nil {
		return "", err
	}

	icon := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	return p.encodeAndSave(icon, AssetTypeBadge, BadgeIconJpegQuality, "badge icon")
}

// fitWithin computes dimensions whose longest side is at most maxSize while
// preserving aspect ratio. Images already within bounds keep their size.
func fitWithin(bounds image.Rectangle, maxSize int) (int, int, error) {
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()
	if origWidth <= 0 || origHeight <= 0 {
		return 0, 0, fmt.Errorf("invalid original image dimensions: %dx%d", origWidth, origHeight)
	}

	if origWidth <= maxSize && origHeight <= maxSize {
		return origWidth, origHeight, nil
	}

	var newWidth, newHeight int
	if origWidth > origHeight {
		newWidth = maxSize
		newHeight = int(math.Round(float64(origHeight) * (float64(maxSize) / float64(origWidth))))
	} else {
		newHeight = maxSize
		newWidth = int(math.Round(float64(origWidth) * (float64(maxSize) / float64(origHeight))))
	}
	return maxInt(1, newWidth), maxInt(1, newHeight), nil
}

// encodeAndSave encodes img as JPEG and streams it into the store under a
// generated UUID filename.
func (p *Processor) encodeAndSave(img image.Image, assetType AssetType, quality int, sourceLabel string) (string, error) {
	reader, writer := io.Pipe()

	go func() {
		defer writer.Close()
		err := imaging.Encode(writer, img, imaging.JPEG, imaging.JPEGQuality(quality))
		if err != nil {
			log.Printf("processor: Failed to encode %s asset: %v", assetType, err)
			writer.CloseWithError(fmt.Errorf("%s encoding failed: %w", assetType, err))
		}
	}()

	assetUUID, err := uuid.NewRandom()
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to generate UUID for %s asset: %w", assetType, err)
	}
	targetFilename := assetUUID.String() + ThumbnailFileExtension

	savedRelPath, err := p.store.Save(assetType, targetFilename, reader)
	// reader is drained by io.Copy inside Save, or closed by the encoding
	// goroutine on error
	if err != nil {
		return "", fmt.Errorf("failed to save %s asset via store: %w", assetType, err)
	}

	log.Printf("processor: Generated and saved %s for %s at %s", assetType, sourceLabel, savedRelPath)
	return savedRelPath, nil
}
