package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pelletier/go-toml/v2"
	"github.com/wailsapp/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/programme-lv/arena/catalog"
	"github.com/programme-lv/arena/s3bucket"
)

// importer uploads a local problem directory tree to the asset bucket
// and verifies that the result parses into a servable catalog.
func main() {
	dir := flag.String("dir", "", "problem directory root (required)")
	bucket := flag.String("bucket", "", "target S3 bucket (required unless -dry-run)")
	region := flag.String("region", "eu-central-1", "bucket region")
	maxWidth := flag.Uint("max-width", 600, "illustration downscale width in px")
	dryRun := flag.Bool("dry-run", false, "parse and report without uploading")
	flag.Parse()

	if *dir == "" {
		fmt.Println("Please provide a problem directory using the -dir flag.")
		os.Exit(1)
	}
	if *bucket == "" && !*dryRun {
		fmt.Println("Please provide a bucket using the -bucket flag, or pass -dry-run.")
		os.Exit(1)
	}

	root, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatalf("failed to resolve directory: %v", err)
	}

	ctx := context.Background()
	var bkt *s3bucket.S3Bucket
	if !*dryRun {
		bkt, err = s3bucket.NewS3Bucket(ctx, *region, *bucket)
		if err != nil {
			log.Fatalf("failed to open bucket: %v", err)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		log.Fatalf("failed to read directory: %v", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := uploadProblem(ctx, bkt, root, entry.Name(), *maxWidth); err != nil {
			log.Fatalf("problem %s: %v", entry.Name(), err)
		}
	}

	// re-parse through the same loader the server uses, so what the
	// importer accepts is exactly what the server will serve
	opts := catalog.LoadDirOpts{}
	if bkt != nil {
		opts.AssetURLBase = bkt.ObjectURL("problems")
	}
	problems, err := catalog.LoadDir(root, opts)
	if err != nil {
		log.Fatalf("catalog verification failed: %v", err)
	}

	fmt.Printf("%-20s %-10s %6s %6s\n", "PROBLEM", "TIER", "TESTS", "HINTS")
	for _, p := range problems {
		fmt.Printf("%-20s %-10s %6d %6d\n", p.ID, p.Tier, len(p.Tests), len(p.Hints))
	}
	fmt.Printf("%d problems ready\n", len(problems))
}

func uploadProblem(ctx context.Context, bkt *s3bucket.S3Bucket, root, id string, maxWidth uint) error {
	testsDir := filepath.Join(root, id, "tests")
	entries, err := os.ReadDir(testsDir)
	if err != nil {
		return fmt.Errorf("failed to read tests directory: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		eg.Go(func() error {
			content, err := os.ReadFile(filepath.Join(testsDir, name))
			if err != nil {
				return fmt.Errorf("failed to read test file %s: %w", name, err)
			}
			if bkt == nil {
				return nil
			}
			key := path.Join("problems", id, "tests", name)
			_, err = bkt.Upload(egCtx, content, key, "text/plain; charset=utf-8")
			return err
		})
		uploaded++
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	log.Printf("problem %s: %d test files", id, uploaded)

	return uploadIllustration(ctx, bkt, root, id, maxWidth)
}

func uploadIllustration(ctx context.Context, bkt *s3bucket.S3Bucket, root, id string, maxWidth uint) error {
	manifestBytes, err := os.ReadFile(filepath.Join(root, id, "problem.toml"))
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest struct {
		IllustrationImage string `toml:"illustration_image"`
	}
	if err := toml.Unmarshal(manifestBytes, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	if manifest.IllustrationImage == "" {
		return nil
	}

	imgData, err := os.ReadFile(filepath.Join(root, id, manifest.IllustrationImage))
	if err != nil {
		return fmt.Errorf("failed to read illustration: %w", err)
	}

	scaled, width, height, err := downscaleImage(imgData, maxWidth)
	if err != nil {
		return fmt.Errorf("failed to downscale illustration: %w", err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(manifest.IllustrationImage))
	if mediaType == "" {
		detected := mimetype.Detect(scaled)
		if detected == nil {
			return fmt.Errorf("failed to detect illustration media type")
		}
		mediaType = detected.String()
	}

	if bkt == nil {
		log.Printf("problem %s: illustration %dx%d (%s), dry run", id, width, height, mediaType)
		return nil
	}

	key := path.Join("problems", id, manifest.IllustrationImage)
	url, err := bkt.Upload(ctx, scaled, key, mediaType)
	if err != nil {
		return fmt.Errorf("failed to upload illustration: %w", err)
	}
	log.Printf("problem %s: illustration %dx%d uploaded to %s", id, width, height, url)
	return nil
}

// downscaleImage caps the image width at maxWidth, keeping the aspect
// ratio and the original encoding.
func downscaleImage(imgData []byte, maxWidth uint) ([]byte, int, int, error) {
	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= int(maxWidth) {
		return imgData, bounds.Dx(), bounds.Dy(), nil
	}

	scaled := resize.Resize(maxWidth, 0, img, resize.Lanczos3)
	newBounds := scaled.Bounds()

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 80})
	case "png":
		err = png.Encode(&buf, scaled)
	default:
		return nil, 0, 0, fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), newBounds.Dx(), newBounds.Dy(), nil
}
