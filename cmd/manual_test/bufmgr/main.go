package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/WillHofkamp/564p2/internal/bufmgr"
	"github.com/WillHofkamp/564p2/internal/storage"
)

func main() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	// Data directory for this manual test.
	dataDir := filepath.Join("data/test", "manual_bufmgr")
	_ = os.RemoveAll(dataDir)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	file, err := storage.OpenFile(filepath.Join(dataDir, "scratch.db"))
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("file close error: %v", err)
		}
	}()

	// A tiny pool so every step of the clock is visible in the debug log.
	bm, err := bufmgr.New(3)
	if err != nil {
		log.Fatalf("new pool: %v", err)
	}

	fmt.Println("Allocating pages...")
	for i := 0; i < 5; i++ {
		pageNo, pg, err := bm.AllocPage(file)
		if err != nil {
			log.Fatalf("AllocPage: %v", err)
		}
		copy(pg.Data(), fmt.Appendf(nil, "page %d says hi", pageNo))
		if err := bm.UnPinPage(file, pageNo, true); err != nil {
			log.Fatalf("UnPinPage: %v", err)
		}
	}

	fmt.Println("Reading pages back...")
	for pageNo := uint32(0); pageNo < 5; pageNo++ {
		pg, err := bm.ReadPage(file, pageNo)
		if err != nil {
			log.Fatalf("ReadPage %d: %v", pageNo, err)
		}
		fmt.Println(pg.DebugString())
		if err := bm.UnPinPage(file, pageNo, false); err != nil {
			log.Fatalf("UnPinPage %d: %v", pageNo, err)
		}
	}

	fmt.Println("Disposing page 2...")
	if err := bm.DisposePage(file, 2); err != nil {
		log.Fatalf("DisposePage: %v", err)
	}

	fmt.Print(bm.DebugString())

	if err := bm.Close(); err != nil {
		log.Fatalf("close pool: %v", err)
	}
}
