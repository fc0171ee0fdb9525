// Copyright 2025 Alan Matykiewicz
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alan-mat/bingasync/bing"
	"github.com/alan-mat/bingasync/internal/config"
	"github.com/alexflint/go-arg"
)

const (
	ProgramName   = "bingsearch"
	Version       = "v0.1.0"
	RepositoryUrl = "github.com/alan-mat/bingasync"
)

type searchFlags struct {
	Terms   []string `arg:"positional,required" help:"search terms"`
	Format  string   `arg:"--format,-f" help:"response format, json or atom"`
	Quote   bool     `arg:"--quote,-q" help:"quote every search term"`
	Adult   string   `arg:"--adult" help:"adult filter, Off, Moderate or Strict"`
	Pages   int      `arg:"--pages,-p" help:"number of pages to fetch"`
	PerPage int      `arg:"--per-page" help:"results per page"`
}

type webCmd struct {
	searchFlags
	Markets []string `arg:"--market,-m,separate" help:"market code, may be repeated"`
}

type englishCmd struct {
	searchFlags
}

type newsCmd struct {
	searchFlags
	Markets    []string `arg:"--market,-m,separate" help:"market code, may be repeated"`
	Categories []string `arg:"--category,-c,separate" help:"news category, may be repeated"`
}

type args struct {
	Web     *webCmd     `arg:"subcommand:web" help:"search the web"`
	English *englishCmd `arg:"subcommand:english" help:"search the english speaking web"`
	News    *newsCmd    `arg:"subcommand:news" help:"search news"`

	Config  string `arg:"--config,-C" help:"path to a yaml config file"`
	EnvFile string `arg:"--env-file" default:".env" help:"env file to load"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, Version)
}

func (args) Epilogue() string {
	return fmt.Sprintf("For more information visit %s", RepositoryUrl)
}

func main() {
	var args args

	p, err := arg.NewParser(arg.Config{Program: ProgramName}, &args)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	if p.Subcommand() == nil {
		p.WriteUsage(os.Stdout)
		os.Exit(0)
	}

	conf, err := config.Load(args.Config, args.EnvFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	level, _ := conf.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	clientOpts, err := conf.ClientOptions(logger)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	client, err := bing.New(conf.ApiKey, clientOpts...)
	if err != nil {
		log.Fatalf("failed to create bing client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resp, err := search(ctx, client, conf, p.Subcommand())
	if err != nil {
		// the client already logged upstream failures
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	text, err := resp.Text()
	if err != nil {
		slog.Error("failed to read response", "err", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func search(ctx context.Context, client *bing.Client, conf *config.Config, cmd any) (*bing.Response, error) {
	switch cmd := cmd.(type) {
	case *webCmd:
		opts, err := searchOptions(conf, cmd.searchFlags)
		if err != nil {
			return nil, err
		}
		return client.WebSearch(ctx, cmd.Terms, marketsOrDefault(conf, cmd.Markets), opts...)
	case *englishCmd:
		opts, err := searchOptions(conf, cmd.searchFlags)
		if err != nil {
			return nil, err
		}
		return client.WebSearchEnglish(ctx, cmd.Terms, opts...)
	case *newsCmd:
		opts, err := searchOptions(conf, cmd.searchFlags)
		if err != nil {
			return nil, err
		}
		return client.NewsSearch(ctx, cmd.Terms, cmd.Categories, marketsOrDefault(conf, cmd.Markets), opts...)
	default:
		return nil, fmt.Errorf("unrecognized command %T", cmd)
	}
}

func marketsOrDefault(conf *config.Config, markets []string) []string {
	if len(markets) == 0 {
		return conf.Defaults.Markets
	}
	return markets
}

// searchOptions layers command line flags over the configured defaults.
func searchOptions(conf *config.Config, f searchFlags) ([]bing.SearchOption, error) {
	opts, err := conf.SearchOptions()
	if err != nil {
		return nil, err
	}

	if f.Format != "" {
		format, err := bing.ParseFormat(f.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bing.WithFormat(format))
	}
	if f.Adult != "" {
		adult, err := bing.ParseAdult(strings.TrimSpace(f.Adult))
		if err != nil {
			return nil, err
		}
		opts = append(opts, bing.WithAdult(adult))
	}
	if f.Quote {
		opts = append(opts, bing.WithQuoting(true))
	}
	if f.Pages > 0 {
		opts = append(opts, bing.WithPages(f.Pages))
	}
	if f.PerPage > 0 {
		opts = append(opts, bing.WithResultsPerPage(f.PerPage))
	}
	return opts, nil
}
