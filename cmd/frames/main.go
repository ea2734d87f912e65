package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/DjordjeVuckovic/video-hunter/internal/frames"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "frames",
		Short: "Extract still frames from videos for embedding",
		Long: `frames wraps ffmpeg to pull still images out of video files.

Run 'frames extract-frame-all <videos> <out>' to produce one thumbnail per video.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().String("ffmpeg", frames.DefaultFFmpeg, "ffmpeg binary")
	rootCmd.PersistentFlags().String("ffprobe", frames.DefaultFFprobe, "ffprobe binary")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		extractFramesCmd(),
		extractFrameCmd(),
		extractFrameAllCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newExtractor(cmd *cobra.Command, opts ...frames.Option) *frames.Extractor {
	ffmpeg, _ := cmd.Flags().GetString("ffmpeg")
	ffprobe, _ := cmd.Flags().GetString("ffprobe")
	return frames.NewExtractor(append([]frames.Option{frames.WithBinaries(ffmpeg, ffprobe)}, opts...)...)
}

func extractFramesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-frames <video> <output-folder> <interval>",
		Short: "Write every n-th frame of a video",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid frame interval %q: %w", args[2], err)
			}

			n, err := newExtractor(cmd).ExtractFrames(cmd.Context(), args[0], args[1], interval)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extraction complete. Frames written: %d\n", n)
			return nil
		},
	}
}

func extractFrameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-frame <video> <output-file>",
		Short: "Write the middle frame of a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newExtractor(cmd).ExtractFrame(cmd.Context(), args[0], args[1])
		},
	}
}

func extractFrameAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-frame-all <video-folder> <output-folder>",
		Short: "Write the middle frame of every video in a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")

			res, err := newExtractor(cmd, frames.WithConcurrency(workers)).
				ExtractAll(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d frames, %d failed\n", res.Extracted, len(res.Failed))
			for _, name := range res.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "  failed: %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().IntP("workers", "w", 4, "videos processed in parallel")
	return cmd
}
