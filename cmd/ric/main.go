// Command ric converts common raster formats to and from RIC payloads.
package main

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/cocosip/go-raster-codec/codec"
	"github.com/cocosip/go-raster-codec/ric"
	"github.com/cocosip/go-raster-codec/ric/container"
	"github.com/cocosip/go-raster-codec/ric/lossless"
	"github.com/cocosip/go-raster-codec/ric/lossy"
)

func main() {
	var quality int
	var useLossless bool
	var method string
	var resize string
	var blurSigma float64
	var verbose bool

	if err := godotenv.Load(); err == nil {
		if q, err := strconv.Atoi(os.Getenv("RIC_QUALITY")); err == nil {
			quality = q
		}
	}
	if quality == 0 {
		quality = lossy.DefaultQuality
	}

	rootCmd := &cobra.Command{
		Use:  "ric",
		Long: `RIC raster codec: encode PNG/JPEG/GIF/WebP images to RIC and back`,
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	encodeCmd := &cobra.Command{
		Use:   "encode <input> <output.ric>",
		Short: "Encode an image to a RIC payload",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return encode(newLogger(verbose), args[0], args[1], encodeOptions{
				quality:   quality,
				lossless:  useLossless,
				method:    method,
				resize:    resize,
				blurSigma: blurSigma,
			})
		},
	}
	encodeCmd.Flags().IntVarP(&quality, "quality", "q", quality, "Lossy quality (1-100)")
	encodeCmd.Flags().BoolVar(&useLossless, "lossless", false, "Use the lossless pipeline")
	encodeCmd.Flags().StringVar(&method, "method", "golomb", "Lossless entropy method (golomb|zstd)")
	encodeCmd.Flags().StringVar(&resize, "resize", "", "Resize to WxH before encoding")
	encodeCmd.Flags().Float64Var(&blurSigma, "blur", 0, "Gaussian blur sigma applied before encoding")

	decodeCmd := &cobra.Command{
		Use:   "decode <input.ric> <output>",
		Short: "Decode a RIC payload to PNG or JPEG",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return decode(newLogger(verbose), args[0], args[1])
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info <input.ric>",
		Short: "Print payload details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return info(args[0])
		},
	}

	rootCmd.AddCommand(encodeCmd, decodeCmd, infoCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

type encodeOptions struct {
	quality   int
	lossless  bool
	method    string
	resize    string
	blurSigma float64
}

func encode(logger *zap.Logger, inPath, outPath string, opts encodeOptions) error {
	defer logger.Sync()

	img, err := loadImage(inPath)
	if err != nil {
		return err
	}

	if opts.resize != "" {
		w, h, err := parseSize(opts.resize)
		if err != nil {
			return err
		}
		img = resizeImage(img, w, h)
	}
	if opts.blurSigma > 0 {
		img = blur.Gaussian(img, opts.blurSigma)
	}

	rgba := toRGBA(img)
	bounds := rgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var payload []byte
	if opts.lossless {
		m, err := parseMethod(opts.method)
		if err != nil {
			return err
		}
		payload, err = lossless.Encode(rgba.Pix, width, height, rgba.Stride, m)
		if err != nil {
			return err
		}
	} else {
		payload, err = lossy.Encode(rgba.Pix, width, height, rgba.Stride, opts.quality)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return err
	}

	logger.Info("encoded",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("lossless", opts.lossless),
		zap.Int("payload_bytes", len(payload)),
		zap.Float64("ratio", float64(len(payload))/float64(width*height*4)))
	return nil
}

func decode(logger *zap.Logger, inPath, outPath string) error {
	defer logger.Sync()

	payload, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	pixels, width, height, err := ric.Decode(payload)
	if err != nil {
		return err
	}

	img := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: 95})
	default:
		err = png.Encode(out, img)
	}
	if err != nil {
		return err
	}

	logger.Info("decoded",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("width", width),
		zap.Int("height", height))
	return nil
}

func info(inPath string) error {
	payload, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	header, body, err := container.Parse(payload)
	if err != nil {
		return err
	}

	mode := "lossy"
	detail := fmt.Sprintf("quality %d", header.Method)
	if header.Mode == container.ModeLossless {
		mode = "lossless"
		detail = "method golomb"
		if int(header.Method) == codec.MethodZstd {
			detail = "method zstd"
		}
	}

	fmt.Printf("%s: %dx%d %s (%s), body %d bytes\n",
		inPath, header.Width, header.Height, mode, detail, len(body))
	return nil
}

// loadImage decodes PNG, JPEG, GIF or WebP based on content
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return webp.Decode(f)
	}
	img, _, err := image.Decode(f)
	return img, err
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

func resizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

func parseMethod(s string) (int, error) {
	switch strings.ToLower(s) {
	case "golomb":
		return codec.MethodGolomb, nil
	case "zstd":
		return codec.MethodZstd, nil
	default:
		return 0, fmt.Errorf("unknown method %q, want golomb or zstd", s)
	}
}