// Command sse_load opens many concurrent SSE connections against the
// dashboard stream endpoints and reports connect/stream error counts
// and event throughput. Useful for sizing the broadcaster buffer.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type counters struct {
	connected   int64
	connectErrs int64
	streamErrs  int64
	events      int64
}

func main() {
	var (
		targetURL    string
		connections  int
		testDuration time.Duration
		rampUp       time.Duration
	)

	flag.StringVar(&targetURL, "url", "http://localhost:8087/ledger/stream", "SSE endpoint URL (ledger or activity stream)")
	flag.IntVar(&connections, "conns", 500, "number of concurrent connections to open")
	flag.DurationVar(&testDuration, "dur", 60*time.Second, "test duration (0 for until interrupted)")
	flag.DurationVar(&rampUp, "ramp", 0, "ramp-up window to spread connection starts across")
	flag.Parse()

	if connections <= 0 {
		log.Fatalf("invalid conns: %d", connections)
	}
	if rampUp == 0 && connections > 100 {
		// spread high connection counts so the listener backlog survives
		rampUp = time.Duration(connections/500) * time.Second
		if rampUp < time.Second {
			rampUp = time.Second
		}
		log.Printf("using default ramp-up %s for %d connections", rampUp, connections)
	}

	log.Printf("starting SSE load: url=%s conns=%d duration=%s ramp=%s", targetURL, connections, testDuration, rampUp)

	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     connections + 100,
			MaxIdleConns:        connections + 100,
			MaxIdleConnsPerHost: connections + 100,
			DisableCompression:  true,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		Timeout: 0, // streaming
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if testDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, testDuration)
		defer cancel()
	}

	var (
		stats counters
		wg    sync.WaitGroup
	)
	start := time.Now()

	var interval time.Duration
	if rampUp > 0 {
		interval = rampUp / time.Duration(connections)
	}

	for i := 0; i < connections; i++ {
		if ctx.Err() != nil {
			break
		}
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			consumeStream(ctx, client, targetURL, &stats)
		}()
	}

	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Printf("status: connected=%d connect_errs=%d stream_errs=%d events=%d elapsed=%s",
					atomic.LoadInt64(&stats.connected),
					atomic.LoadInt64(&stats.connectErrs),
					atomic.LoadInt64(&stats.streamErrs),
					atomic.LoadInt64(&stats.events),
					time.Since(start).Truncate(time.Second),
				)
			}
		}
	}()

	wg.Wait()

	elapsed := time.Since(start)
	if elapsed == 0 {
		elapsed = time.Millisecond
	}
	fmt.Printf("done: connected=%d connect_errs=%d stream_errs=%d events=%d elapsed=%s events/s=%.2f\n",
		atomic.LoadInt64(&stats.connected),
		atomic.LoadInt64(&stats.connectErrs),
		atomic.LoadInt64(&stats.streamErrs),
		atomic.LoadInt64(&stats.events),
		elapsed.Truncate(time.Millisecond),
		float64(atomic.LoadInt64(&stats.events))/elapsed.Seconds(),
	)
}

func consumeStream(ctx context.Context, client *http.Client, url string, stats *counters) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		atomic.AddInt64(&stats.connectErrs, 1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		atomic.AddInt64(&stats.connectErrs, 1)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		atomic.AddInt64(&stats.connectErrs, 1)
		return
	}

	atomic.AddInt64(&stats.connected, 1)
	reader := bufio.NewReader(resp.Body)

	for {
		if ctx.Err() != nil {
			return
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				atomic.AddInt64(&stats.streamErrs, 1)
			}
			return
		}
		// count data/event lines, skip heartbeats ":" and blank separators
		if len(line) > 0 && line[0] != ':' && line != "\n" && line != "\r\n" {
			atomic.AddInt64(&stats.events, 1)
		}
	}
}
