package dir_scanner

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-reconx/httpclient"
	"go-reconx/models"
	"io"
	"os"
	"strings"
	"sync"
)

//go:embed wordlist.txt
var defaultWordlist string

// DirScanner requests every wordlist entry below the target and keeps the
// paths that answer with a status below 400.
type DirScanner struct {
	Wordlist string // Path to a wordlist file; empty uses the built-in list.
	Workers  int

	client *httpclient.Client
}

// New returns a new *DirScanner.
func New(client *httpclient.Client, wordlist string) *DirScanner {
	return &DirScanner{
		Wordlist: wordlist,
		Workers:  10,
		client:   client,
	}
}

// Name returns the plugin name.
func (ds *DirScanner) Name() string {
	return "Directory Scanner"
}

// LoadWords reads the configured wordlist. Blank lines and lines starting
// with '#' are skipped.
func (ds *DirScanner) LoadWords() ([]string, error) {
	if ds.Wordlist == "" {
		return parseWords(strings.NewReader(defaultWordlist))
	}

	f, err := os.Open(ds.Wordlist)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()
	return parseWords(f)
}

func parseWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return words, nil
}

// pathURL joins a word onto the base URL as a directory.
func pathURL(base, word string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(word, "/") + "/"
}

// Run performs the path discovery for the given target. Results keep the
// wordlist order.
func (ds *DirScanner) Run(ctx context.Context, target *models.TargetInfo) (*models.DTO, error) {
	words, err := ds.LoadWords()
	if err != nil {
		return nil, err
	}

	workers := ds.Workers
	if workers <= 0 {
		workers = 1
	}

	logrus.Infof("Starting path discovery on %s (%d words)", target.BaseURL, len(words))

	found := make([]string, len(words))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				u := pathURL(target.BaseURL, words[idx])
				resp, err := ds.client.Get(ctx, u, nil)
				if err != nil {
					logrus.Tracef("Path %s failed: %v", u, err)
					continue
				}
				if resp.StatusCode < 400 {
					logrus.Debugf("Path %s found (%d)", u, resp.StatusCode)
					found[idx] = u
				}
			}
		}()
	}

feed:
	for i := range words {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var result models.DTO
	for _, u := range found {
		if u != "" {
			result.Paths = append(result.Paths, u)
		}
	}
	logrus.Infof("Discovered %d paths on %s", len(result.Paths), target.BaseURL)

	return &result, nil
}
