package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"wxpow.dev/engine/diary"
	"wxpow.dev/engine/prove"
	"wxpow.dev/engine/verify"
	"wxpow.dev/engine/wxpow0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := DefaultConfig()
	cfg := defaults

	fs := flag.NewFlagSet("wxpow-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)

	mode := fs.String("mode", "prove", "prove|verify")
	fs.StringVar(&cfg.Body, "body", defaults.Body, "message body to prove, or (in verify mode) the full proof string")
	fs.StringVar(&cfg.UserID, "user-id", defaults.UserID, "user id embedded in the proof metadata")
	fs.StringVar(&cfg.Context, "context", defaults.Context, "context string embedded in the proof metadata")
	initCoresCSV := fs.String("init-cores", "0", "comma-separated cores for dataset initialization")
	hashCoresCSV := fs.String("hash-cores", "0,1", "comma-separated cores for hashing workers")
	fs.BoolVar(&cfg.UseLargePages, "large-pages", defaults.UseLargePages, "request large pages from RandomX")
	diffFlag := fs.Int("diff", -1, "stop once a proof reaching this many leading zero bits is found (-1: no target, run until time limit or interrupt)")
	timeLimitFlag := fs.Int("time-limit", 0, "stop hashing after this many seconds (0: unbounded)")
	fs.StringVar(&cfg.JournalPath, "journal", defaults.JournalPath, "optional bbolt path for a local run journal")
	fs.BoolVar(&cfg.Progress, "progress", defaults.Progress, "print periodic progress while hashing")
	dryRun := fs.Bool("dry-run", false, "print effective config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var err error
	cfg.InitCores, err = parseCoreList(*initCoresCSV)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid init-cores: %v\n", err)
		return 2
	}
	cfg.HashCores, err = parseCoreList(*hashCoresCSV)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "invalid hash-cores: %v\n", err)
		return 2
	}
	cfg.DiffTarget = *diffFlag
	cfg.TimeLimitSecs = *timeLimitFlag

	switch strings.ToLower(*mode) {
	case "verify":
		return runVerify(cfg, stdout, stderr)
	case "prove":
		if err := ValidateConfig(cfg); err != nil {
			_, _ = fmt.Fprintf(stderr, "invalid config: %v\n", err)
			return 2
		}
		if *dryRun {
			return printConfig(stdout, cfg)
		}
		return runProve(cfg, stdout, stderr)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown mode %q: want prove or verify\n", *mode)
		return 2
	}
}

func runVerify(cfg Config, stdout, stderr io.Writer) int {
	res, pretty, recognized, err := verify.Verify(cfg.Body, cfg.UseLargePages)
	if !recognized {
		_, _ = fmt.Fprintln(stdout, "verify: proof does not contain a recognized wxPoW magic sequence")
		return 1
	}
	if pretty != "" {
		_, _ = fmt.Fprintln(stdout, pretty)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "verify: %v\n", err)
		return 2
	}
	_, _ = fmt.Fprintf(stdout, "verify: diff=%d hash=%s\n", res.Diff, hex.EncodeToString(res.Hash[:]))
	return 0
}

func runProve(cfg Config, stdout, stderr io.Writer) int {
	var d *diary.Diary
	if cfg.JournalPath != "" {
		var err error
		d, err = diary.Open(cfg.JournalPath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "journal open failed: %v\n", err)
			return 2
		}
		defer d.Close()
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	content := wxpow0.ProofContent{Body: cfg.Body, UserID: cfg.UserID, Context: cfg.Context}

	var opts []prove.Option
	opts = append(opts, prove.WithLogger(logger))
	if cfg.DiffTarget >= 0 {
		opts = append(opts, prove.WithDiffTarget(uint(cfg.DiffTarget)))
	}
	if cfg.TimeLimitSecs > 0 {
		opts = append(opts, prove.WithTimeLimit(time.Duration(cfg.TimeLimitSecs)*time.Second))
	}

	started := time.Now()
	mgr := prove.New(content, cfg.InitCores, cfg.HashCores, cfg.UseLargePages, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := mgr.Done()
	interrupted := ctx.Done()
	progress := time.NewTicker(250 * time.Millisecond)
	defer progress.Stop()
	if !cfg.Progress {
		progress.Stop()
	}

waitLoop:
	for {
		select {
		case <-done:
			break waitLoop
		case <-interrupted:
			mgr.Cancel()
			interrupted = nil
		case <-progress.C:
			if cfg.Progress {
				printProgress(stdout, mgr)
			}
		}
	}

	snapshot := mgr.MasterSnapshot()
	elapsed := time.Since(started)

	for _, w := range snapshot.Warnings {
		_, _ = fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	var best prove.HashResult
	for _, r := range snapshot.BestResults {
		if r.Diff > best.Diff {
			best = r
		}
	}

	state := mgr.State()
	_, _ = fmt.Fprintf(stdout, "state=%s rx_init=%s elapsed=%s best_diff=%d\n", state, snapshot.RxTime, elapsed, best.Diff)
	if best.Proof != "" {
		_, _ = fmt.Fprintf(stdout, "proof: %s\n", best.Proof)
	}

	if d != nil {
		target := (*uint)(nil)
		if cfg.DiffTarget >= 0 {
			t := uint(cfg.DiffTarget)
			target = &t
		}
		_, journalErr := d.Append(diary.RunRecord{
			StartedAt:   started,
			BodyLen:     len(cfg.Body),
			InitCores:   cfg.InitCores,
			HashCores:   cfg.HashCores,
			DiffTarget:  target,
			FinalState:  state.String(),
			BestDiff:    best.Diff,
			Elapsed:     elapsed,
			Cancelled:   snapshot.ErrorStr == "" && state == prove.HashCancelled,
			ErrorString: snapshot.ErrorStr,
		})
		if journalErr != nil {
			_, _ = fmt.Fprintf(stderr, "journal append failed: %v\n", journalErr)
		}
	}

	if snapshot.ErrorStr != "" {
		return 2
	}
	return 0
}

func printProgress(stdout io.Writer, mgr *prove.Manager) {
	ts := mgr.ThreadSnapshot()
	var totalHashes uint64
	var maxDiff uint32
	for i := range ts.Hashes {
		totalHashes += ts.Hashes[i]
		if ts.BestDiff[i] > maxDiff {
			maxDiff = ts.BestDiff[i]
		}
	}
	_, _ = fmt.Fprintf(stdout, "progress: hashes=%d best_diff=%d\n", totalHashes, maxDiff)
}

func printConfig(w io.Writer, cfg Config) int {
	_, _ = fmt.Fprintf(w, "body=%q user_id=%q context=%q init_cores=%v hash_cores=%v large_pages=%v diff_target=%s time_limit=%ds journal=%q progress=%v\n",
		cfg.Body, cfg.UserID, cfg.Context, cfg.InitCores, cfg.HashCores, cfg.UseLargePages, diffTargetString(cfg.DiffTarget), cfg.TimeLimitSecs, cfg.JournalPath, cfg.Progress)
	return 0
}

func diffTargetString(d int) string {
	if d < 0 {
		return "none"
	}
	return strconv.Itoa(d)
}
