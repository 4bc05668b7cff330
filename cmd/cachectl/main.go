package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"teamcache.client/internal/api"
	"teamcache.client/internal/config"
	"teamcache.client/internal/core/domain"
	"teamcache.client/internal/core/logger"
	"teamcache.client/internal/core/tracing"
	"teamcache.client/internal/format"
	"teamcache.client/internal/stream"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cachectl <command> [flags]

Commands:
  health                 check API server health
  metrics                show the current metrics snapshot
  s3                     show detailed S3 health with history
  submit                 create a cache job for files/directories
  status <job-id>        show status and progress of a job
  list                   list cache jobs with pagination
  cancel <job-id>        cancel a running or pending job
  wait <job-id>          poll a job until it reaches a terminal status
  batch <dir> [dir...]   submit one job per directory
  watch                  follow the real-time metrics stream
`)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if cfg.EnableTracing {
		shutdown, err := tracing.Init(cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("failed to initialize tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	client, err := api.New(cfg.APIURL, cfg.APIKey, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		log.Fatalf("failed to build client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var runErr error
	switch cmd {
	case "health":
		runErr = runHealth(ctx, client)
	case "metrics":
		runErr = runMetrics(ctx, client)
	case "s3":
		runErr = runS3(ctx, client)
	case "submit":
		runErr = runSubmit(ctx, client, cfg.PollInterval, args)
	case "status":
		runErr = runStatus(ctx, client, args)
	case "list":
		runErr = runList(ctx, client, args)
	case "cancel":
		runErr = runCancel(ctx, client, args)
	case "wait":
		runErr = runWait(ctx, client, cfg.PollInterval, args)
	case "batch":
		runErr = runBatch(ctx, client, cfg.PollInterval, args)
	case "watch":
		runErr = runWatch(ctx, cfg.WSURL, args)
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		if ctx.Err() != nil {
			logger.Info("interrupted")
			os.Exit(130)
		}
		logger.Error("command failed", "command", cmd, "error", runErr)
		os.Exit(1)
	}
}

func runHealth(ctx context.Context, client *api.Client) error {
	health, err := client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("API Status: %s\n", health.Status)
	fmt.Printf("Database: %s\n", health.Database)
	return nil
}

func runMetrics(ctx context.Context, client *api.Client) error {
	snap, err := client.Metrics(ctx)
	if err != nil {
		return err
	}
	fmt.Println(format.Snapshot("Current System Metrics", *snap))
	return nil
}

func runS3(ctx context.Context, client *api.Client) error {
	resp, err := client.S3Metrics(ctx)
	if err != nil {
		return err
	}

	fmt.Println(format.S3HealthLine(resp.Current))
	if len(resp.History) > 0 {
		fmt.Printf("History (%d checks):\n", len(resp.History))
		for _, sample := range resp.History {
			fmt.Printf("  %s  %s\n", sample.Timestamp.Format(time.RFC3339), format.S3HealthLine(sample.S3Health))
		}
	}
	return nil
}

// stringSlice collects repeated flag values.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func runSubmit(ctx context.Context, client *api.Client, interval time.Duration, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	var files, dirs stringSlice
	fs.Var(&files, "file", "file path to cache (repeatable)")
	fs.Var(&dirs, "dir", "directory path to cache (repeatable)")
	recursive := fs.Bool("recursive", true, "scan directories recursively")
	wait := fs.Bool("wait", false, "monitor the job until completion")
	fs.Parse(args)

	created, err := client.CreateCacheJob(ctx, api.CreateJobRequest{
		Files:       files,
		Directories: dirs,
		Recursive:   *recursive,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Job created: %s\n", created.JobID)
	fmt.Printf("Total files: %d\n", created.TotalFiles)
	fmt.Printf("Total size: %s\n", readableSize(created.TotalSize))

	if !*wait {
		return nil
	}

	final, err := monitorWithProgress(ctx, client, created.JobID, interval)
	if err != nil {
		return err
	}
	fmt.Printf("Job finished with status: %s\n", final.Status)
	return nil
}

func runStatus(ctx context.Context, client *api.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cachectl status <job-id>")
	}
	job, err := client.GetJob(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(format.JobStatus(job))
	return nil
}

func runList(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "items per page")
	status := fs.String("status", "", "filter by job status")
	fs.Parse(args)

	list, err := client.ListJobs(ctx, api.ListJobsOptions{
		Page:   *page,
		Limit:  *limit,
		Status: domain.JobStatus(*status),
	})
	if err != nil {
		return err
	}

	for _, job := range list.Jobs {
		fmt.Println(format.JobRow(job))
	}
	fmt.Printf("Page %d/%d jobs shown, %d total\n", list.Page, len(list.Jobs), list.Total)
	return nil
}

func runCancel(ctx context.Context, client *api.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cachectl cancel <job-id>")
	}
	resp, err := client.CancelJob(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Cancelled job %s\n", resp.JobID)
	return nil
}

func runWait(ctx context.Context, client *api.Client, interval time.Duration, args []string) error {
	fs := flag.NewFlagSet("wait", flag.ExitOnError)
	pollInterval := fs.Duration("interval", interval, "seconds between status checks")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: cachectl wait [flags] <job-id>")
	}

	final, err := monitorWithProgress(ctx, client, fs.Arg(0), *pollInterval)
	if err != nil {
		return err
	}
	fmt.Printf("Job finished with status: %s\n", final.Status)
	return nil
}

func runBatch(ctx context.Context, client *api.Client, interval time.Duration, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	wait := fs.Bool("wait", true, "monitor each job until completion")
	fs.Parse(args)

	dirs := fs.Args()
	if len(dirs) == 0 {
		return fmt.Errorf("usage: cachectl batch [flags] <dir> [dir...]")
	}

	results, err := client.BatchCacheDirectories(ctx, dirs, *wait, interval, func(job *domain.Job) {
		fmt.Printf("\r%s", format.ProgressLine(job))
	})
	if err != nil {
		return err
	}

	fmt.Println()
	var failed int
	for _, result := range results {
		switch {
		case result.Err != nil:
			failed++
			fmt.Printf("%s: error: %v\n", result.Directory, result.Err)
		case result.Final != nil:
			fmt.Printf("%s: %s (%s)\n", result.Directory, result.Final.Status, result.JobID)
		default:
			fmt.Printf("%s: submitted (%s)\n", result.Directory, result.JobID)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d directories failed", failed, len(dirs))
	}
	return nil
}

func runWatch(ctx context.Context, wsURL string, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	duration := fs.Duration("duration", 0, "how long to watch (0 = until interrupted)")
	fs.Parse(args)

	monitor := stream.NewMonitor(wsURL, stream.Handlers{
		OnSnapshot: func(snap domain.MetricsSnapshot) {
			fmt.Println(format.Snapshot("Initial metrics received", snap))
		},
		OnThroughput: func(m domain.LucidLinkMetrics) {
			fmt.Println(format.ThroughputLine(m))
		},
		OnS3Health: func(h domain.S3Health) {
			fmt.Println(format.S3HealthLine(h))
		},
	})

	err := monitor.Run(ctx, *duration)
	if err == context.Canceled {
		return nil
	}
	return err
}

func monitorWithProgress(ctx context.Context, client *api.Client, jobID string, interval time.Duration) (*domain.Job, error) {
	final, err := client.MonitorJob(ctx, jobID, interval, func(job *domain.Job) {
		fmt.Printf("\r%s", format.ProgressLine(job))
	})
	fmt.Println()
	return final, err
}

func readableSize(size domain.Size) string {
	if size.Readable != "" {
		return size.Readable
	}
	return format.Bytes(size.Bytes)
}
