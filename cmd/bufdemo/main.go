package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/WillHofkamp/564p2/internal"
	"github.com/WillHofkamp/564p2/internal/alias/util"
	"github.com/WillHofkamp/564p2/internal/bufmgr"
	"github.com/WillHofkamp/564p2/internal/storage"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "bufmgr.yaml", "Path to bufmgr yaml config")
	flag.Parse()

	cfg, err := internal.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	workdir := cfg.Storage.Workdir
	if workdir == "" {
		workdir = "./data"
	}
	base := cfg.Storage.File
	if base == "" {
		base = "demo.db"
	}
	frames := cfg.Buffer.Frames
	if frames <= 0 {
		frames = 16
	}

	if cfg.Buffer.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := os.MkdirAll(workdir, storage.FileMode0755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	file, err := storage.OpenFile(filepath.Join(workdir, base))
	if err != nil {
		log.Fatalf("open paged file: %v", err)
	}
	defer util.CloseFunc(file)

	bm, err := bufmgr.New(uint32(frames))
	if err != nil {
		log.Fatalf("create buffer pool: %v", err)
	}

	// Allocate twice as many pages as the pool holds so the demo shows
	// the replacement policy at work, not just a warm cache.
	numPages := frames * 2
	pageNos := make([]uint32, 0, numPages)
	for i := 0; i < numPages; i++ {
		pageNo, pg, err := bm.AllocPage(file)
		if err != nil {
			log.Fatalf("alloc page: %v", err)
		}
		copy(pg.Data(), fmt.Appendf(nil, "payload of page %d", pageNo))
		if err := bm.UnPinPage(file, pageNo, true); err != nil {
			log.Fatalf("unpin page %d: %v", pageNo, err)
		}
		pageNos = append(pageNos, pageNo)
	}

	// Touch every page again in allocation order. With twice as many pages
	// as frames, each read misses and comes back from disk.
	for _, pageNo := range pageNos {
		pg, err := bm.ReadPage(file, pageNo)
		if err != nil {
			log.Fatalf("read page %d: %v", pageNo, err)
		}
		fmt.Printf("page %-4d %q\n", pageNo, string(pg.Data()[:20]))
		if err := bm.UnPinPage(file, pageNo, false); err != nil {
			log.Fatalf("unpin page %d: %v", pageNo, err)
		}
	}

	if err := bm.FlushFile(file); err != nil {
		log.Fatalf("flush file: %v", err)
	}

	fmt.Println()
	fmt.Print(bm.DebugString())

	st := bm.Stats()
	fmt.Printf("\nhits=%d misses=%d evictions=%d writebacks=%d\n",
		st.Hits, st.Misses, st.Evictions, st.Writebacks)

	if err := bm.Close(); err != nil {
		log.Fatalf("close buffer pool: %v", err)
	}
}
