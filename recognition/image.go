package recognition

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// PatchSize is the fixed side length, in pixels, of the square grayscale
// patch every face region is normalized to. Training and classification must
// use the same value; changing it invalidates any previously trained model.
const PatchSize = 100

// loadGrayscaleFile reads an image from disk as a single-channel grayscale
// matrix. The caller owns the returned Mat and must Close it.
func loadGrayscaleFile(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadGrayScale)
	if img.Empty() {
		return gocv.Mat{}, fmt.Errorf("read %s: %w", path, ErrImageUnreadable)
	}
	return img, nil
}

// loadGrayscaleBytes decodes an in-memory image as a single-channel
// grayscale matrix. The caller owns the returned Mat and must Close it.
func loadGrayscaleBytes(buf []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(buf, gocv.IMReadGrayScale)
	if err != nil || img.Empty() {
		if !img.Empty() {
			img.Close()
		}
		return gocv.Mat{}, fmt.Errorf("decode image bytes: %w", ErrImageUnreadable)
	}
	return img, nil
}

// normalizePatch crops a face region out of a grayscale image and resizes it
// to the system-wide PatchSize square. The region is clamped to the image
// bounds first; a region that clamps to nothing yields ok=false. The caller
// owns the returned Mat and must Close it when ok.
func normalizePatch(gray gocv.Mat, region image.Rectangle) (gocv.Mat, bool) {
	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())
	region = region.Intersect(bounds)
	if region.Empty() {
		return gocv.Mat{}, false
	}

	roi := gray.Region(region)
	defer roi.Close()

	patch := gocv.NewMat()
	gocv.Resize(roi, &patch, image.Pt(PatchSize, PatchSize), 0, 0, gocv.InterpolationArea)
	return patch, true
}
