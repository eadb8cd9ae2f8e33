// Command bjpegdump decodes a baseline JPEG file and writes it out as a
// PNG, optionally printing the parsed segment metadata.
package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	jpeg "github.com/leonshting/go-jpeg-decoder"
)

var (
	verbose bool
	outPath string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bjpegdump <file.jpg>",
		Short: "Decode a baseline JPEG file and dump it as PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each decode stage")
	cmd.Flags().StringVarP(&outPath, "out", "o", "out.png", "output PNG path")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := jpeg.NewReaderSource(f)
	if err != nil {
		return err
	}

	dec := jpeg.NewDecoder(jpeg.WithLogger(logger))
	raster, err := dec.Decode(src)
	if err != nil {
		if de, ok := jpeg.AsDecodeError(err); ok {
			return fmt.Errorf("decode failed (%s): %s", de.Kind, de.Message)
		}
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, raster.ToImage()); err != nil {
		return err
	}

	logger.Info().
		Int("width", raster.Width).
		Int("height", raster.Height).
		Str("out", outPath).
		Msg("wrote image")
	if raster.Comment != "" {
		logger.Info().Str("comment", raster.Comment).Msg("embedded comment")
	}
	return nil
}
