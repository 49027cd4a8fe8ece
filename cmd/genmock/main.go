// Command genmock records lookup fixtures from the deterministic providers.
// The fixture pins current output so later changes to the engine can be
// checked with `mapctl verify`.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -addresses data/addresses.txt \
//	  -providers mock,google,tomtom \
//	  -out data/mock/lookups.json
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/maps-api-service/internal/fixture"
	"github.com/couchcryptid/maps-api-service/internal/mapservice"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addrPath := flag.String("addresses", "", "file with one address per line (defaults to a built-in sample)")
	providers := flag.String("providers", "mock,google,tomtom", "comma-separated providers to record")
	out := flag.String("out", "", "output path for the JSON fixture")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	addresses := fixture.DefaultAddresses
	if *addrPath != "" {
		var err error
		if addresses, err = readLines(*addrPath); err != nil {
			return fmt.Errorf("reading addresses: %w", err)
		}
	}

	svc, err := mapservice.NewStandalone(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}

	f, err := fixture.Generate(context.Background(), svc, splitList(*providers), addresses, fixture.DefaultPoints)
	if err != nil {
		return err
	}
	log.Printf("geocode: %d, reverse_geocode: %d, distance: %d",
		len(f.Geocode), len(f.ReverseGeocode), len(f.Distance))

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := fixture.Write(*out, f); err != nil {
		return err
	}
	log.Printf("wrote fixture: %s (%d cases)", *out, f.Len())
	return nil
}

// readLines returns the non-blank lines of a file.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no addresses in %s", path)
	}
	return lines, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
