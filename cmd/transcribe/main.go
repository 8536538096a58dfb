// Command transcribe runs one local file through the transcription pipeline
// and prints the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	flags "github.com/jessevdk/go-flags"

	"github.com/mrsingh-rishi/transcript-studio/config"
	"github.com/mrsingh-rishi/transcript-studio/service"
	"github.com/mrsingh-rishi/transcript-studio/stt"
	"github.com/mrsingh-rishi/transcript-studio/types"
)

type options struct {
	File    string   `short:"f" long:"file" description:"Media file to transcribe" required:"true"`
	Format  string   `long:"format" description:"Print a rendered export instead of plain text (txt, srt, vtt)"`
	EnvFile []string `long:"env" description:"Extra .env file to load (repeatable)"`
	Quiet   bool     `short:"q" long:"quiet" description:"Do not print progress"`
}

func main() {
	var opts options
	if _, err := flags.ParseArgs(&opts, os.Args[1:]); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	var format types.ExportFormat
	if opts.Format != "" {
		f, err := types.ParseExportFormat(opts.Format)
		if err != nil {
			return err
		}
		format = f
	}

	cfg, err := config.Load(opts.EnvFile...)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.Level())
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(opts.File)
	if err != nil {
		return err
	}

	client, err := stt.NewClient(cfg.APIKey, cfg.ClientOptions()...)
	if err != nil {
		return err
	}
	transcription := service.NewTranscription(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	onProgress := func(percent float64) {
		if !opts.Quiet {
			fmt.Fprintf(os.Stderr, "\ruploading %5.1f%%", percent)
			if percent >= 100 {
				fmt.Fprintln(os.Stderr)
			}
		}
	}
	transcript, err := transcription.Transcribe(ctx, types.MediaPayload{Data: data, Filename: opts.File}, onProgress)
	if err != nil {
		return err
	}

	if format == "" {
		fmt.Println(transcript.Text)
		return nil
	}
	rendered, err := transcription.Export(ctx, transcript.ID, format)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}
